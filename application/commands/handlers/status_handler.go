package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Rekrutin/rekrutinai-sub000/application/commands"
	"github.com/Rekrutin/rekrutinai-sub000/application/commands/bus"
	"github.com/Rekrutin/rekrutinai-sub000/application/ports"
	"github.com/Rekrutin/rekrutinai-sub000/domain/application"
)

// AdvanceStatusHandler handles the one-step Kanban move.
type AdvanceStatusHandler struct {
	store  ports.RecordStore
	mirror ports.RemoteMirror
	logger *zap.Logger
}

// NewAdvanceStatusHandler creates a new handler instance
func NewAdvanceStatusHandler(store ports.RecordStore, mirror ports.RemoteMirror, logger *zap.Logger) *AdvanceStatusHandler {
	return &AdvanceStatusHandler{store: store, mirror: mirror, logger: logger}
}

// Handle executes the advance status command
func (h *AdvanceStatusHandler) Handle(ctx context.Context, c bus.Command) error {
	cmd, ok := c.(commands.AdvanceStatusCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", c)
	}

	var moved bool
	var updated *application.Record
	found, err := h.store.Update(ctx, cmd.OwnerID, cmd.RecordID, func(record *application.Record) error {
		m, err := record.AdvanceStatus(cmd.Direction)
		if err != nil {
			return err
		}
		moved = m
		updated = record.Clone()
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		// Mutating a deleted record is a no-op, not an error.
		h.logger.Debug("Advance on missing record ignored", zap.String("recordID", cmd.RecordID))
		return nil
	}
	if !moved {
		// Already at the boundary column for this direction.
		return nil
	}

	go h.mirror.MirrorUpdate(context.WithoutCancel(ctx), updated)

	h.logger.Info("Record status advanced",
		zap.String("recordID", updated.ID),
		zap.String("direction", string(cmd.Direction)),
		zap.String("status", string(updated.Status)),
	)
	return nil
}

// SetStatusHandler handles the direct dropdown selection. Any-to-any jumps
// are allowed; there is no terminal state at the data-model level.
type SetStatusHandler struct {
	store  ports.RecordStore
	mirror ports.RemoteMirror
	logger *zap.Logger
}

// NewSetStatusHandler creates a new handler instance
func NewSetStatusHandler(store ports.RecordStore, mirror ports.RemoteMirror, logger *zap.Logger) *SetStatusHandler {
	return &SetStatusHandler{store: store, mirror: mirror, logger: logger}
}

// Handle executes the set status command
func (h *SetStatusHandler) Handle(ctx context.Context, c bus.Command) error {
	cmd, ok := c.(commands.SetStatusCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", c)
	}

	var updated *application.Record
	found, err := h.store.Update(ctx, cmd.OwnerID, cmd.RecordID, func(record *application.Record) error {
		if err := record.SetStatus(cmd.Status); err != nil {
			return err
		}
		updated = record.Clone()
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		h.logger.Debug("Set status on missing record ignored", zap.String("recordID", cmd.RecordID))
		return nil
	}

	go h.mirror.MirrorUpdate(context.WithoutCancel(ctx), updated)

	h.logger.Info("Record status set",
		zap.String("recordID", updated.ID),
		zap.String("status", string(updated.Status)),
	)
	return nil
}

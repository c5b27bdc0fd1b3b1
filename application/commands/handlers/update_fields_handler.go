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

// UpdateRecordFieldsHandler handles the generic merge-patch for free-form
// fields.
type UpdateRecordFieldsHandler struct {
	store  ports.RecordStore
	mirror ports.RemoteMirror
	logger *zap.Logger
}

// NewUpdateRecordFieldsHandler creates a new handler instance
func NewUpdateRecordFieldsHandler(store ports.RecordStore, mirror ports.RemoteMirror, logger *zap.Logger) *UpdateRecordFieldsHandler {
	return &UpdateRecordFieldsHandler{store: store, mirror: mirror, logger: logger}
}

// Handle executes the update fields command
func (h *UpdateRecordFieldsHandler) Handle(ctx context.Context, c bus.Command) error {
	cmd, ok := c.(commands.UpdateRecordFieldsCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", c)
	}

	var updated *application.Record
	found, err := h.store.Update(ctx, cmd.OwnerID, cmd.RecordID, func(record *application.Record) error {
		record.ApplyPatch(cmd.Patch)
		updated = record.Clone()
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		h.logger.Debug("Patch on missing record ignored", zap.String("recordID", cmd.RecordID))
		return nil
	}

	go h.mirror.MirrorUpdate(context.WithoutCancel(ctx), updated)

	h.logger.Info("Record fields updated", zap.String("recordID", updated.ID))
	return nil
}

// DeleteRecordHandler handles record deletion. The local removal is
// authoritative for the UI; the mirror delete may fail without consequence.
type DeleteRecordHandler struct {
	store  ports.RecordStore
	mirror ports.RemoteMirror
	logger *zap.Logger
}

// NewDeleteRecordHandler creates a new handler instance
func NewDeleteRecordHandler(store ports.RecordStore, mirror ports.RemoteMirror, logger *zap.Logger) *DeleteRecordHandler {
	return &DeleteRecordHandler{store: store, mirror: mirror, logger: logger}
}

// Handle executes the delete record command
func (h *DeleteRecordHandler) Handle(ctx context.Context, c bus.Command) error {
	cmd, ok := c.(commands.DeleteRecordCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", c)
	}

	removed, err := h.store.Remove(ctx, cmd.OwnerID, cmd.RecordID)
	if err != nil {
		return err
	}
	if !removed {
		// Unknown id leaves the store unchanged.
		return nil
	}

	go h.mirror.MirrorDelete(context.WithoutCancel(ctx), cmd.OwnerID, cmd.RecordID)

	h.logger.Info("Record deleted",
		zap.String("recordID", cmd.RecordID),
		zap.String("ownerID", cmd.OwnerID),
	)
	return nil
}

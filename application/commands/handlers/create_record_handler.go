package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Rekrutin/rekrutinai-sub000/application/commands"
	"github.com/Rekrutin/rekrutinai-sub000/application/commands/bus"
	"github.com/Rekrutin/rekrutinai-sub000/application/ports"
	"github.com/Rekrutin/rekrutinai-sub000/domain/application"
	"github.com/Rekrutin/rekrutinai-sub000/domain/quota"
	pkgerrors "github.com/Rekrutin/rekrutinai-sub000/pkg/errors"
)

// CreateRecordHandler handles CreateRecordCommand. Creation counts against
// the tracked-record limit, so the quota policy is consulted with fresh
// counters on every attempt.
type CreateRecordHandler struct {
	store  ports.RecordStore
	usage  ports.UsageStore
	plans  ports.PlanSource
	mirror ports.RemoteMirror
	logger *zap.Logger
}

// NewCreateRecordHandler creates a new handler instance
func NewCreateRecordHandler(
	store ports.RecordStore,
	usage ports.UsageStore,
	plans ports.PlanSource,
	mirror ports.RemoteMirror,
	logger *zap.Logger,
) *CreateRecordHandler {
	return &CreateRecordHandler{
		store:  store,
		usage:  usage,
		plans:  plans,
		mirror: mirror,
		logger: logger,
	}
}

// Handle executes the create record command
func (h *CreateRecordHandler) Handle(ctx context.Context, c bus.Command) error {
	cmd, ok := c.(commands.CreateRecordCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", c)
	}

	decision, err := evaluateQuota(ctx, h.plans, h.store, h.usage, cmd.OwnerID)
	if err != nil {
		return err
	}
	if !decision.CanCreateRecord {
		// Deliberate user-facing block: the caller turns this into an
		// upgrade prompt instead of silently dropping the action.
		return pkgerrors.NewQuotaExceededError("tracked records", quota.LimitsFor(quotaTier(ctx, h.plans, cmd.OwnerID)).MaxRecords)
	}

	record, err := application.NewRecord(cmd.OwnerID, cmd.Title, cmd.Organization, cmd.InitialStatus)
	if err != nil {
		return err
	}
	record.ID = cmd.RecordID
	record.Location = cmd.Location
	record.ExternalURL = cmd.ExternalURL
	record.Description = cmd.Description

	if err := h.store.Upsert(ctx, record); err != nil {
		return err
	}

	// Detached: the mirror never blocks or rolls back the local mutation.
	go h.mirror.MirrorCreate(context.WithoutCancel(ctx), record.Clone())

	h.logger.Info("Record created",
		zap.String("recordID", record.ID),
		zap.String("ownerID", cmd.OwnerID),
		zap.String("source", cmd.Source),
	)
	return nil
}

// evaluateQuota reads the tier and counters at the moment of the attempt
// and runs the pure policy over them. Never cached.
func evaluateQuota(ctx context.Context, plans ports.PlanSource, store ports.RecordStore, usage ports.UsageStore, ownerID string) (quota.Decision, error) {
	tier, err := plans.Tier(ctx, ownerID)
	if err != nil {
		return quota.Decision{}, pkgerrors.Wrap(err, "resolving plan tier")
	}
	scans, err := usage.AIScansUsed(ctx, ownerID)
	if err != nil {
		return quota.Decision{}, pkgerrors.Wrap(err, "reading usage counters")
	}
	return quota.Evaluate(tier, quota.Usage{
		TrackedRecords: store.Count(ctx, ownerID),
		AIScansUsed:    scans,
	}), nil
}

func quotaTier(ctx context.Context, plans ports.PlanSource, ownerID string) quota.Tier {
	tier, err := plans.Tier(ctx, ownerID)
	if err != nil {
		return quota.TierFree
	}
	return tier
}

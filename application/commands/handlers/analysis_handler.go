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

// RunAnalysisHandler handles the gated resume-versus-posting scan. The call
// suspends only its own flow while the analyzer works; other records stay
// mutable in the meantime.
type RunAnalysisHandler struct {
	store    ports.RecordStore
	usage    ports.UsageStore
	plans    ports.PlanSource
	mirror   ports.RemoteMirror
	analyzer ports.ResumeAnalyzer
	logger   *zap.Logger
}

// NewRunAnalysisHandler creates a new handler instance
func NewRunAnalysisHandler(
	store ports.RecordStore,
	usage ports.UsageStore,
	plans ports.PlanSource,
	mirror ports.RemoteMirror,
	analyzer ports.ResumeAnalyzer,
	logger *zap.Logger,
) *RunAnalysisHandler {
	return &RunAnalysisHandler{
		store:    store,
		usage:    usage,
		plans:    plans,
		mirror:   mirror,
		analyzer: analyzer,
		logger:   logger,
	}
}

// Handle executes the run analysis command. The scan counter moves only on
// confirmed analyzer success, so a failed attempt costs no quota.
func (h *RunAnalysisHandler) Handle(ctx context.Context, c bus.Command) error {
	cmd, ok := c.(commands.RunAnalysisCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", c)
	}

	record, found := h.store.Get(ctx, cmd.OwnerID, cmd.RecordID)
	if !found {
		h.logger.Debug("Analysis on missing record ignored", zap.String("recordID", cmd.RecordID))
		return nil
	}

	decision, err := evaluateQuota(ctx, h.plans, h.store, h.usage, cmd.OwnerID)
	if err != nil {
		return err
	}
	if !decision.CanRunAnalysis {
		return pkgerrors.NewQuotaExceededError("AI scans", quota.LimitsFor(quotaTier(ctx, h.plans, cmd.OwnerID)).MaxAIScans)
	}

	jobContext := cmd.JobContext
	if jobContext == "" {
		jobContext = record.Title + " at " + record.Organization + "\n\n" + record.Description
	}

	analysis, err := h.analyzer.Analyze(ctx, cmd.ResumeText, jobContext)
	if err != nil {
		// Record stays unannotated; the failure surfaces to the caller.
		return pkgerrors.NewExternalError("analyzer", err)
	}

	if err := h.usage.IncrementAIScans(ctx, cmd.OwnerID); err != nil {
		h.logger.Error("Failed to persist scan counter", zap.Error(err), zap.String("ownerID", cmd.OwnerID))
	}

	// The analyzer ran for a while; re-resolve the record under the store
	// lock so a delete that landed mid-scan stays deleted and the result is
	// simply dropped.
	var updated *application.Record
	found, err = h.store.Update(ctx, cmd.OwnerID, cmd.RecordID, func(r *application.Record) error {
		if err := r.AttachAnalysis(*analysis); err != nil {
			return err
		}
		updated = r.Clone()
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		h.logger.Debug("Record deleted during analysis, result dropped",
			zap.String("recordID", cmd.RecordID))
		return nil
	}

	go h.mirror.MirrorUpdate(context.WithoutCancel(ctx), updated)

	h.logger.Info("Analysis attached",
		zap.String("recordID", updated.ID),
		zap.Int("fitScore", analysis.FitScore),
	)
	return nil
}

// AttachAnalysisHandler sets an externally computed annotation without going
// through the analyzer or the quota gate.
type AttachAnalysisHandler struct {
	store  ports.RecordStore
	mirror ports.RemoteMirror
	logger *zap.Logger
}

// NewAttachAnalysisHandler creates a new handler instance
func NewAttachAnalysisHandler(store ports.RecordStore, mirror ports.RemoteMirror, logger *zap.Logger) *AttachAnalysisHandler {
	return &AttachAnalysisHandler{store: store, mirror: mirror, logger: logger}
}

// Handle executes the attach analysis command
func (h *AttachAnalysisHandler) Handle(ctx context.Context, c bus.Command) error {
	cmd, ok := c.(commands.AttachAnalysisCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", c)
	}

	var updated *application.Record
	found, err := h.store.Update(ctx, cmd.OwnerID, cmd.RecordID, func(r *application.Record) error {
		if err := r.AttachAnalysis(cmd.Analysis); err != nil {
			return err
		}
		updated = r.Clone()
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		h.logger.Debug("Attach on missing record ignored", zap.String("recordID", cmd.RecordID))
		return nil
	}

	go h.mirror.MirrorUpdate(context.WithoutCancel(ctx), updated)

	return nil
}

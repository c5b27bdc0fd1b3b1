package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Rekrutin/rekrutinai-sub000/application/ports"
	"github.com/Rekrutin/rekrutinai-sub000/application/queries"
	"github.com/Rekrutin/rekrutinai-sub000/application/queries/bus"
	"github.com/Rekrutin/rekrutinai-sub000/domain/alerts"
	"github.com/Rekrutin/rekrutinai-sub000/domain/quota"
	pkgerrors "github.com/Rekrutin/rekrutinai-sub000/pkg/errors"
)

// RecordQueryHandler serves all read-side queries from the canonical local
// store. Reads never touch the remote mirror.
type RecordQueryHandler struct {
	store  ports.RecordStore
	usage  ports.UsageStore
	plans  ports.PlanSource
	logger *zap.Logger
}

// NewRecordQueryHandler creates a new handler instance
func NewRecordQueryHandler(store ports.RecordStore, usage ports.UsageStore, plans ports.PlanSource, logger *zap.Logger) *RecordQueryHandler {
	return &RecordQueryHandler{store: store, usage: usage, plans: plans, logger: logger}
}

// Handle dispatches on the concrete query type
func (h *RecordQueryHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	switch query := q.(type) {
	case queries.GetRecordQuery:
		return h.getRecord(ctx, query)
	case queries.ListRecordsQuery:
		return h.listRecords(ctx, query)
	case queries.GetQuotaStatusQuery:
		return h.quotaStatus(ctx, query)
	case queries.MatchAlertsQuery:
		return alerts.MatchAll(query.Postings, query.Searches), nil
	default:
		return nil, fmt.Errorf("unexpected query type %T", q)
	}
}

func (h *RecordQueryHandler) getRecord(ctx context.Context, q queries.GetRecordQuery) (interface{}, error) {
	record, found := h.store.Get(ctx, q.OwnerID, q.RecordID)
	if !found {
		return nil, pkgerrors.NewNotFoundError("record")
	}
	return queries.NewRecordView(record, time.Now().UTC()), nil
}

func (h *RecordQueryHandler) listRecords(ctx context.Context, q queries.ListRecordsQuery) (interface{}, error) {
	now := time.Now().UTC()
	records := h.store.List(ctx, q.OwnerID)
	views := make([]queries.RecordView, 0, len(records))
	for _, r := range records {
		views = append(views, queries.NewRecordView(r, now))
	}
	return views, nil
}

func (h *RecordQueryHandler) quotaStatus(ctx context.Context, q queries.GetQuotaStatusQuery) (interface{}, error) {
	tier, err := h.plans.Tier(ctx, q.OwnerID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "resolving plan tier")
	}
	scans, err := h.usage.AIScansUsed(ctx, q.OwnerID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "reading usage counters")
	}

	usage := quota.Usage{
		TrackedRecords: h.store.Count(ctx, q.OwnerID),
		AIScansUsed:    scans,
	}
	decision := quota.Evaluate(tier, usage)

	return queries.QuotaStatusResult{
		Tier:              string(tier),
		TrackedRecords:    usage.TrackedRecords,
		AIScansUsed:       usage.AIScansUsed,
		CanCreateRecord:   decision.CanCreateRecord,
		CanRunAnalysis:    decision.CanRunAnalysis,
		RemainingRecords:  decision.RemainingRecords,
		RemainingAnalyses: decision.RemainingAnalyses,
	}, nil
}

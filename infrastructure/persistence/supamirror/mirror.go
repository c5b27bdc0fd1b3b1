// Package supamirror replicates accepted local mutations to the Supabase
// table backing the hosted product. It is strictly best-effort: the local
// store is canonical for the live session, so every failure here is logged
// and swallowed, nothing is retried, and nothing is rolled back. A write
// that never lands is repaired opportunistically by the next load-time
// reconciliation, not by this adapter.
package supamirror

import (
	"context"
	"time"

	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"github.com/Rekrutin/rekrutinai-sub000/domain/application"
)

// Mirror implements ports.RemoteMirror against PostgREST.
type Mirror struct {
	client *supabase.Client
	table  string
	logger *zap.Logger
}

// NewMirror creates a mirror for the given Supabase project.
func NewMirror(url, serviceKey, table string, logger *zap.Logger) (*Mirror, error) {
	client, err := supabase.NewClient(url, serviceKey, nil)
	if err != nil {
		return nil, err
	}
	return &Mirror{client: client, table: table, logger: logger}, nil
}

// row is the remote shape of a record. Nested structures land in jsonb
// columns.
type row struct {
	ID           string                      `json:"id"`
	OwnerID      string                      `json:"owner_id"`
	Title        string                      `json:"title"`
	Organization string                      `json:"organization"`
	Location     string                      `json:"location,omitempty"`
	ExternalURL  string                      `json:"external_url,omitempty"`
	Description  string                      `json:"description,omitempty"`
	Status       application.Status          `json:"status"`
	CreatedAt    time.Time                   `json:"created_at"`
	Timeline     []application.TimelineEvent `json:"timeline"`
	AIAnalysis   *application.Analysis       `json:"ai_analysis,omitempty"`
	Assessment   *application.Assessment     `json:"assessment,omitempty"`
	Notes        string                      `json:"notes,omitempty"`
	CoverLetter  string                      `json:"cover_letter,omitempty"`
	FollowUpDate *time.Time                  `json:"follow_up_date,omitempty"`
}

func toRow(r *application.Record) row {
	return row{
		ID:           r.ID,
		OwnerID:      r.OwnerID,
		Title:        r.Title,
		Organization: r.Organization,
		Location:     r.Location,
		ExternalURL:  r.ExternalURL,
		Description:  r.Description,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
		Timeline:     r.Timeline,
		AIAnalysis:   r.AIAnalysis,
		Assessment:   r.Assessment,
		Notes:        r.Notes,
		CoverLetter:  r.CoverLetter,
		FollowUpDate: r.FollowUpDate,
	}
}

// MirrorCreate inserts the record remotely. Upsert on id so a replayed
// create after a racing update still converges on last-write-wins.
func (m *Mirror) MirrorCreate(ctx context.Context, record *application.Record) {
	_, _, err := m.client.From(m.table).
		Insert(toRow(record), true, "id", "minimal", "").
		Execute()
	if err != nil {
		m.logger.Warn("Mirror create failed",
			zap.String("recordID", record.ID), zap.Error(err))
	}
}

// MirrorUpdate overwrites the remote row with the record's current state.
func (m *Mirror) MirrorUpdate(ctx context.Context, record *application.Record) {
	_, _, err := m.client.From(m.table).
		Update(toRow(record), "minimal", "").
		Eq("id", record.ID).
		Execute()
	if err != nil {
		m.logger.Warn("Mirror update failed",
			zap.String("recordID", record.ID), zap.Error(err))
	}
}

// MirrorDelete removes the remote row. Local deletion was already accepted;
// a failure here only means the remote keeps a stale row until the next
// reconciliation.
func (m *Mirror) MirrorDelete(ctx context.Context, ownerID, id string) {
	_, _, err := m.client.From(m.table).
		Delete("minimal", "").
		Eq("id", id).
		Eq("owner_id", ownerID).
		Execute()
	if err != nil {
		m.logger.Warn("Mirror delete failed",
			zap.String("recordID", id), zap.Error(err))
	}
}

// Noop is the mirror used in pure local-only mode.
type Noop struct{}

// MirrorCreate does nothing
func (Noop) MirrorCreate(ctx context.Context, record *application.Record) {}

// MirrorUpdate does nothing
func (Noop) MirrorUpdate(ctx context.Context, record *application.Record) {}

// MirrorDelete does nothing
func (Noop) MirrorDelete(ctx context.Context, ownerID, id string) {}

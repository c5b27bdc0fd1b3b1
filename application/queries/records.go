package queries

import (
	"errors"
	"time"

	"github.com/Rekrutin/rekrutinai-sub000/domain/alerts"
	"github.com/Rekrutin/rekrutinai-sub000/domain/application"
)

// GetRecordQuery fetches a single record by id.
type GetRecordQuery struct {
	OwnerID  string
	RecordID string
}

// Validate validates the GetRecordQuery
func (q GetRecordQuery) Validate() error {
	if q.OwnerID == "" {
		return errors.New("owner ID is required")
	}
	if q.RecordID == "" {
		return errors.New("record ID is required")
	}
	return nil
}

// ListRecordsQuery fetches the owner's full collection in insertion order.
type ListRecordsQuery struct {
	OwnerID string
}

// Validate validates the ListRecordsQuery
func (q ListRecordsQuery) Validate() error {
	if q.OwnerID == "" {
		return errors.New("owner ID is required")
	}
	return nil
}

// RecordView is the read-model shape rendered by the UI. Deadline urgency is
// computed at read time so a stale bucket is never stored.
type RecordView struct {
	Record          *application.Record `json:"record"`
	DeadlineUrgency application.Urgency `json:"deadlineUrgency"`
	DeadlineLabel   string              `json:"deadlineLabel"`
}

// NewRecordView decorates a record with its derived deadline fields.
func NewRecordView(r *application.Record, now time.Time) RecordView {
	var deadline *time.Time
	if r.Assessment != nil {
		deadline = r.Assessment.Deadline
	}
	return RecordView{
		Record:          r,
		DeadlineUrgency: application.DeadlineUrgency(deadline, now),
		DeadlineLabel:   application.DeadlineLabel(deadline, now),
	}
}

// GetQuotaStatusQuery reports the owner's remaining limits for the UI.
type GetQuotaStatusQuery struct {
	OwnerID string
}

// Validate validates the GetQuotaStatusQuery
func (q GetQuotaStatusQuery) Validate() error {
	if q.OwnerID == "" {
		return errors.New("owner ID is required")
	}
	return nil
}

// QuotaStatusResult is the evaluated policy plus the inputs it saw.
type QuotaStatusResult struct {
	Tier              string `json:"tier"`
	TrackedRecords    int    `json:"trackedRecords"`
	AIScansUsed       int    `json:"aiScansUsed"`
	CanCreateRecord   bool   `json:"canCreateRecord"`
	CanRunAnalysis    bool   `json:"canRunAnalysis"`
	RemainingRecords  int    `json:"remainingRecords"`
	RemainingAnalyses int    `json:"remainingAnalyses"`
}

// MatchAlertsQuery runs the owner's saved searches over an externally
// supplied posting feed. The engine neither fetches nor caches postings.
type MatchAlertsQuery struct {
	OwnerID  string
	Postings []alerts.Posting
	Searches []alerts.SavedSearch
}

// Validate validates the MatchAlertsQuery
func (q MatchAlertsQuery) Validate() error {
	if q.OwnerID == "" {
		return errors.New("owner ID is required")
	}
	return nil
}

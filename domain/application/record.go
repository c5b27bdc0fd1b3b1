package application

import (
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/Rekrutin/rekrutinai-sub000/pkg/errors"
)

// Record is the aggregate for one tracked job application. The in-memory
// store is canonical for the live session, so the struct round-trips
// through JSON losslessly.
type Record struct {
	ID           string         `json:"id"`
	OwnerID      string         `json:"ownerId"`
	Title        string         `json:"title"`
	Organization string         `json:"organization"`
	Location     string         `json:"location,omitempty"`
	ExternalURL  string         `json:"externalUrl,omitempty"`
	Description  string         `json:"description,omitempty"`
	Status       Status         `json:"status"`
	CreatedAt    time.Time      `json:"createdAt"`
	Timeline     []TimelineEvent `json:"timeline"`
	AIAnalysis   *Analysis      `json:"aiAnalysis,omitempty"`
	Assessment   *Assessment    `json:"assessment,omitempty"`
	Notes        string         `json:"notes,omitempty"`
	CoverLetter  string         `json:"coverLetter,omitempty"`
	FollowUpDate *time.Time     `json:"followUpDate,omitempty"`
}

// TimelineEvent is one entry in a record's append-only status history.
type TimelineEvent struct {
	Status Status    `json:"status"`
	At     time.Time `json:"at"`
}

// Analysis holds the result of one resume-versus-posting scan.
type Analysis struct {
	FitScore     int      `json:"fitScore"`
	Analysis     string   `json:"analysis"`
	Improvements []string `json:"improvements,omitempty"`
}

// FieldPatch carries the independently editable free-form fields. Nil
// pointers mean "leave unchanged". Status and timeline are never part of
// a patch.
type FieldPatch struct {
	Title        *string     `json:"title,omitempty"`
	Organization *string     `json:"organization,omitempty"`
	Location     *string     `json:"location,omitempty"`
	ExternalURL  *string     `json:"externalUrl,omitempty"`
	Description  *string     `json:"description,omitempty"`
	Notes        *string     `json:"notes,omitempty"`
	CoverLetter  *string     `json:"coverLetter,omitempty"`
	FollowUpDate *time.Time  `json:"followUpDate,omitempty"`
	Assessment   *Assessment `json:"assessment,omitempty"`
}

// NewRecord creates a record with a single-entry timeline. The initial
// status defaults to StatusSaved when the caller passes the empty string.
func NewRecord(ownerID, title, organization string, initial Status) (*Record, error) {
	if ownerID == "" {
		return nil, pkgerrors.NewValidationError("ownerID cannot be empty")
	}
	if title == "" {
		return nil, pkgerrors.NewValidationError("title cannot be empty")
	}
	if organization == "" {
		return nil, pkgerrors.NewValidationError("organization cannot be empty")
	}
	if initial == "" {
		initial = StatusSaved
	}
	if !initial.Valid() {
		return nil, pkgerrors.NewValidationError("unknown status: " + string(initial))
	}

	now := time.Now().UTC()
	return &Record{
		ID:           uuid.New().String(),
		OwnerID:      ownerID,
		Title:        title,
		Organization: organization,
		Status:       initial,
		CreatedAt:    now,
		Timeline:     []TimelineEvent{{Status: initial, At: now}},
	}, nil
}

// SetStatus moves the record to any status and appends one timeline event.
// Adjacency in the status order is deliberately not required here; direct
// selection can jump Saved straight to Rejected.
func (r *Record) SetStatus(s Status) error {
	if !s.Valid() {
		return pkgerrors.NewValidationError("unknown status: " + string(s))
	}
	r.Status = s
	r.Timeline = append(r.Timeline, TimelineEvent{Status: s, At: time.Now().UTC()})
	return nil
}

// AdvanceStatus steps the record one position forward or backward in the
// status order. At either boundary it is a no-op and reports false.
func (r *Record) AdvanceStatus(dir Direction) (bool, error) {
	next, ok := r.Status.Step(dir)
	if !ok {
		return false, nil
	}
	if err := r.SetStatus(next); err != nil {
		return false, err
	}
	return true, nil
}

// AttachAnalysis sets or overwrites the AI annotation. Annotation is not a
// status change, so the timeline is untouched.
func (r *Record) AttachAnalysis(a Analysis) error {
	if a.FitScore < 0 || a.FitScore > 100 {
		return pkgerrors.NewValidationError("fit score must be between 0 and 100")
	}
	r.AIAnalysis = &a
	return nil
}

// ApplyPatch merges the non-nil fields of the patch into the record.
func (r *Record) ApplyPatch(p FieldPatch) {
	if p.Title != nil && *p.Title != "" {
		r.Title = *p.Title
	}
	if p.Organization != nil && *p.Organization != "" {
		r.Organization = *p.Organization
	}
	if p.Location != nil {
		r.Location = *p.Location
	}
	if p.ExternalURL != nil {
		r.ExternalURL = *p.ExternalURL
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	if p.CoverLetter != nil {
		r.CoverLetter = *p.CoverLetter
	}
	if p.FollowUpDate != nil {
		r.FollowUpDate = p.FollowUpDate
	}
	if p.Assessment != nil {
		r.Assessment = p.Assessment
	}
}

// Clone returns a deep copy so callers outside the store cannot alias the
// canonical slice headers.
func (r *Record) Clone() *Record {
	cp := *r
	cp.Timeline = make([]TimelineEvent, len(r.Timeline))
	copy(cp.Timeline, r.Timeline)
	if r.AIAnalysis != nil {
		a := *r.AIAnalysis
		a.Improvements = append([]string(nil), r.AIAnalysis.Improvements...)
		cp.AIAnalysis = &a
	}
	if r.Assessment != nil {
		as := *r.Assessment
		cp.Assessment = &as
	}
	if r.FollowUpDate != nil {
		t := *r.FollowUpDate
		cp.FollowUpDate = &t
	}
	return &cp
}

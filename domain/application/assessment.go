package application

import (
	"fmt"
	"time"
)

// AssessmentStatus tracks progress on a required online assessment.
type AssessmentStatus string

const (
	AssessmentPending    AssessmentStatus = "pending"
	AssessmentInProgress AssessmentStatus = "in_progress"
	AssessmentCompleted  AssessmentStatus = "completed"
	AssessmentMissed     AssessmentStatus = "missed"
)

// Assessment is the optional assessment sub-record attached to a tracked
// application.
type Assessment struct {
	Required bool             `json:"required"`
	Type     string           `json:"type,omitempty"`
	Status   AssessmentStatus `json:"status,omitempty"`
	Deadline *time.Time       `json:"deadline,omitempty"`
	Platform string           `json:"platform,omitempty"`
	Link     string           `json:"link,omitempty"`
}

// Urgency buckets an assessment deadline for the UI.
type Urgency string

const (
	UrgencyOverdue Urgency = "overdue"
	UrgencyUrgent  Urgency = "urgent"  // due within 48 hours
	UrgencyWarning Urgency = "warning" // due within 96 hours
	UrgencySafe    Urgency = "safe"
)

// DeadlineUrgency buckets an optional deadline relative to now. A missing
// deadline is never urgent.
func DeadlineUrgency(deadline *time.Time, now time.Time) Urgency {
	if deadline == nil {
		return UrgencySafe
	}
	remaining := deadline.Sub(now)
	switch {
	case remaining < 0:
		return UrgencyOverdue
	case remaining <= 48*time.Hour:
		return UrgencyUrgent
	case remaining <= 96*time.Hour:
		return UrgencyWarning
	default:
		return UrgencySafe
	}
}

// DeadlineLabel renders the human string shown next to an assessment.
func DeadlineLabel(deadline *time.Time, now time.Time) string {
	if deadline == nil {
		return "No deadline"
	}
	remaining := deadline.Sub(now)
	if remaining < 0 {
		return "Overdue"
	}
	days := int(remaining.Hours() / 24)
	switch days {
	case 0:
		return "Due today"
	case 1:
		return "Due tomorrow"
	default:
		return fmt.Sprintf("%d days left", days)
	}
}

// Urgency reports the bucket for the assessment's own deadline.
func (a *Assessment) Urgency(now time.Time) Urgency {
	if a == nil {
		return UrgencySafe
	}
	return DeadlineUrgency(a.Deadline, now)
}

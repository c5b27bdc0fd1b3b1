package commands

import (
	"errors"

	"github.com/Rekrutin/rekrutinai-sub000/domain/application"
)

// RunAnalysisCommand asks the external analyzer to score the owner's resume
// against the record's posting and attaches the result. Gated by the AI-scan
// quota; the counter moves only when the analyzer succeeds.
type RunAnalysisCommand struct {
	OwnerID    string `json:"owner_id" validate:"required"`
	RecordID   string `json:"record_id" validate:"required"`
	ResumeText string `json:"resume_text" validate:"required"`
	JobContext string `json:"job_context"`
}

// Validate validates the command
func (cmd RunAnalysisCommand) Validate() error {
	if cmd.OwnerID == "" {
		return errors.New("owner ID is required")
	}
	if cmd.RecordID == "" {
		return errors.New("record ID is required")
	}
	if cmd.ResumeText == "" {
		return errors.New("resume text is required")
	}
	return nil
}

// AttachAnalysisCommand sets an already-computed annotation on a record.
// Overwrites any previous analysis; never merges, never touches the
// timeline.
type AttachAnalysisCommand struct {
	OwnerID  string               `json:"owner_id" validate:"required"`
	RecordID string               `json:"record_id" validate:"required"`
	Analysis application.Analysis `json:"analysis"`
}

// Validate validates the command
func (cmd AttachAnalysisCommand) Validate() error {
	if cmd.OwnerID == "" {
		return errors.New("owner ID is required")
	}
	if cmd.RecordID == "" {
		return errors.New("record ID is required")
	}
	if cmd.Analysis.FitScore < 0 || cmd.Analysis.FitScore > 100 {
		return errors.New("fit score must be between 0 and 100")
	}
	return nil
}

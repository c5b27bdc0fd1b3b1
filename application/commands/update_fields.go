package commands

import (
	"errors"

	"github.com/Rekrutin/rekrutinai-sub000/domain/application"
)

// UpdateRecordFieldsCommand merge-patches the free-form fields of a record.
// Status and timeline are deliberately unreachable from here.
type UpdateRecordFieldsCommand struct {
	OwnerID  string                 `json:"owner_id" validate:"required"`
	RecordID string                 `json:"record_id" validate:"required"`
	Patch    application.FieldPatch `json:"patch"`
}

// Validate validates the command
func (cmd UpdateRecordFieldsCommand) Validate() error {
	if cmd.OwnerID == "" {
		return errors.New("owner ID is required")
	}
	if cmd.RecordID == "" {
		return errors.New("record ID is required")
	}
	if cmd.Patch.Title != nil && *cmd.Patch.Title == "" {
		return errors.New("title cannot be cleared")
	}
	if cmd.Patch.Organization != nil && *cmd.Patch.Organization == "" {
		return errors.New("organization cannot be cleared")
	}
	return nil
}

// DeleteRecordCommand stops tracking a record. Local deletion is
// authoritative; the remote mirror delete is best-effort. The caller owns
// clearing any UI selection pointing at the deleted id.
type DeleteRecordCommand struct {
	OwnerID  string `json:"owner_id" validate:"required"`
	RecordID string `json:"record_id" validate:"required"`
}

// Validate validates the command
func (cmd DeleteRecordCommand) Validate() error {
	if cmd.OwnerID == "" {
		return errors.New("owner ID is required")
	}
	if cmd.RecordID == "" {
		return errors.New("record ID is required")
	}
	return nil
}

package commands

import (
	"errors"

	"github.com/Rekrutin/rekrutinai-sub000/domain/application"
)

// AdvanceStatusCommand moves a record one step along the board order. This
// exists separately from SetStatusCommand because it encodes the one-column
// Kanban drag; it never skips columns and no-ops at either end.
type AdvanceStatusCommand struct {
	OwnerID   string                `json:"owner_id" validate:"required"`
	RecordID  string                `json:"record_id" validate:"required"`
	Direction application.Direction `json:"direction" validate:"required,oneof=forward backward"`
}

// Validate validates the command
func (cmd AdvanceStatusCommand) Validate() error {
	if cmd.OwnerID == "" {
		return errors.New("owner ID is required")
	}
	if cmd.RecordID == "" {
		return errors.New("record ID is required")
	}
	if cmd.Direction != application.DirectionForward && cmd.Direction != application.DirectionBackward {
		return errors.New("direction must be forward or backward")
	}
	return nil
}

// SetStatusCommand sets a record's status directly, regardless of board
// adjacency. Used by the dropdown selection path.
type SetStatusCommand struct {
	OwnerID  string             `json:"owner_id" validate:"required"`
	RecordID string             `json:"record_id" validate:"required"`
	Status   application.Status `json:"status" validate:"required"`
}

// Validate validates the command
func (cmd SetStatusCommand) Validate() error {
	if cmd.OwnerID == "" {
		return errors.New("owner ID is required")
	}
	if cmd.RecordID == "" {
		return errors.New("record ID is required")
	}
	if !cmd.Status.Valid() {
		return errors.New("unknown status")
	}
	return nil
}

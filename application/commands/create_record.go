package commands

import (
	"errors"

	"github.com/Rekrutin/rekrutinai-sub000/domain/application"
)

// CreateRecordCommand starts tracking a new job application. The record ID
// is generated by the caller so the HTTP layer can respond with it without
// a read-back; Source distinguishes manual creation from a browser-capture
// import but changes nothing about the resulting record.
type CreateRecordCommand struct {
	RecordID      string             `json:"record_id" validate:"required"`
	OwnerID       string             `json:"owner_id" validate:"required"`
	Title         string             `json:"title" validate:"required,min=1,max=200"`
	Organization  string             `json:"organization" validate:"required,min=1,max=200"`
	Location      string             `json:"location" validate:"max=200"`
	ExternalURL   string             `json:"external_url" validate:"omitempty,url,max=2000"`
	Description   string             `json:"description" validate:"max=50000"`
	InitialStatus application.Status `json:"initial_status"`
	Source        string             `json:"source" validate:"omitempty,oneof=manual capture"`
}

// Validate validates the command
func (cmd CreateRecordCommand) Validate() error {
	if cmd.RecordID == "" {
		return errors.New("record ID is required")
	}
	if cmd.OwnerID == "" {
		return errors.New("owner ID is required")
	}
	if cmd.Title == "" {
		return errors.New("title is required")
	}
	if cmd.Organization == "" {
		return errors.New("organization is required")
	}
	if cmd.InitialStatus != "" && !cmd.InitialStatus.Valid() {
		return errors.New("unknown initial status")
	}
	return nil
}

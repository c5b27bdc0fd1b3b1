package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rekrutin/rekrutinai-sub000/application/commands"
	"github.com/Rekrutin/rekrutinai-sub000/application/commands/bus"
	"github.com/Rekrutin/rekrutinai-sub000/application/queries"
	querybus "github.com/Rekrutin/rekrutinai-sub000/application/queries/bus"
	"github.com/Rekrutin/rekrutinai-sub000/domain/application"
	"github.com/Rekrutin/rekrutinai-sub000/pkg/common"
	pkgerrors "github.com/Rekrutin/rekrutinai-sub000/pkg/errors"
	"github.com/Rekrutin/rekrutinai-sub000/pkg/utils"
)

// RecordHandler handles application-record HTTP requests
type RecordHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *RecordHandler {
	return &RecordHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// CreateRecordRequest represents the request body for creating a record
type CreateRecordRequest struct {
	Title         string `json:"title" validate:"required,min=1,max=200"`
	Organization  string `json:"organization" validate:"required,min=1,max=200"`
	Location      string `json:"location,omitempty" validate:"max=200"`
	ExternalURL   string `json:"externalUrl,omitempty" validate:"omitempty,url,max=2000"`
	Description   string `json:"description,omitempty" validate:"max=50000"`
	InitialStatus string `json:"initialStatus,omitempty"`
	Source        string `json:"source,omitempty" validate:"omitempty,oneof=manual capture"`
}

// CreateRecordResponse represents the response for creating a record
type CreateRecordResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// CreateRecord handles POST /records
func (h *RecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	ownerID, ok := common.GetOwnerID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	// The record ID is minted here so the response can carry it without a
	// read-back through the command bus.
	recordID := uuid.New().String()

	cmd := commands.CreateRecordCommand{
		RecordID:      recordID,
		OwnerID:       ownerID,
		Title:         req.Title,
		Organization:  req.Organization,
		Location:      req.Location,
		ExternalURL:   req.ExternalURL,
		Description:   req.Description,
		InitialStatus: application.Status(req.InitialStatus),
		Source:        req.Source,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.respondCommandError(w, "Failed to create record", ownerID, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, CreateRecordResponse{
		ID:      recordID,
		Message: "Record created successfully",
	})
}

// GetRecord handles GET /records/{recordID}
func (h *RecordHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	recordID, ownerID, ok := h.requireRecordID(w, r)
	if !ok {
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetRecordQuery{
		OwnerID:  ownerID,
		RecordID: recordID,
	})
	if err != nil {
		h.respondCommandError(w, "Failed to retrieve record", ownerID, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// ListRecords handles GET /records
func (h *RecordHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := common.GetOwnerID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListRecordsQuery{OwnerID: ownerID})
	if err != nil {
		h.respondCommandError(w, "Failed to list records", ownerID, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// UpdateRecord handles PATCH /records/{recordID}
func (h *RecordHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	recordID, ownerID, ok := h.requireRecordID(w, r)
	if !ok {
		return
	}

	var patch application.FieldPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body: "+err.Error())
		return
	}

	cmd := commands.UpdateRecordFieldsCommand{
		OwnerID:  ownerID,
		RecordID: recordID,
		Patch:    patch,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.respondCommandError(w, "Failed to update record", ownerID, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{
		"id":      recordID,
		"message": "Record updated successfully",
	})
}

// DeleteRecord handles DELETE /records/{recordID}
func (h *RecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	recordID, ownerID, ok := h.requireRecordID(w, r)
	if !ok {
		return
	}

	cmd := commands.DeleteRecordCommand{
		OwnerID:  ownerID,
		RecordID: recordID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.respondCommandError(w, "Failed to delete record", ownerID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AdvanceStatusRequest represents the request body for stepping a status
type AdvanceStatusRequest struct {
	Direction string `json:"direction" validate:"required,oneof=forward backward"`
}

// AdvanceStatus handles POST /records/{recordID}/advance
func (h *RecordHandler) AdvanceStatus(w http.ResponseWriter, r *http.Request) {
	recordID, ownerID, ok := h.requireRecordID(w, r)
	if !ok {
		return
	}

	var req AdvanceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	cmd := commands.AdvanceStatusCommand{
		OwnerID:   ownerID,
		RecordID:  recordID,
		Direction: application.Direction(req.Direction),
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.respondCommandError(w, "Failed to advance status", ownerID, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{
		"id":      recordID,
		"message": "Status advanced",
	})
}

// SetStatusRequest represents the request body for a direct status change
type SetStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// SetStatus handles PUT /records/{recordID}/status
func (h *RecordHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	recordID, ownerID, ok := h.requireRecordID(w, r)
	if !ok {
		return
	}

	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	cmd := commands.SetStatusCommand{
		OwnerID:  ownerID,
		RecordID: recordID,
		Status:   application.Status(req.Status),
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.respondCommandError(w, "Failed to set status", ownerID, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{
		"id":      recordID,
		"message": "Status updated",
	})
}

// RunAnalysisRequest represents the request body for an AI scan
type RunAnalysisRequest struct {
	ResumeText string `json:"resumeText" validate:"required"`
	JobContext string `json:"jobContext,omitempty"`
}

// RunAnalysis handles POST /records/{recordID}/analyze
func (h *RecordHandler) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	recordID, ownerID, ok := h.requireRecordID(w, r)
	if !ok {
		return
	}

	var req RunAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	cmd := commands.RunAnalysisCommand{
		OwnerID:    ownerID,
		RecordID:   recordID,
		ResumeText: req.ResumeText,
		JobContext: req.JobContext,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.respondCommandError(w, "Failed to run analysis", ownerID, err)
		return
	}

	// The analysis is attached to the record; return the fresh view.
	result, err := h.queryBus.Ask(r.Context(), queries.GetRecordQuery{
		OwnerID:  ownerID,
		RecordID: recordID,
	})
	if err != nil {
		h.respondCommandError(w, "Failed to retrieve record", ownerID, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

func (h *RecordHandler) requireRecordID(w http.ResponseWriter, r *http.Request) (recordID, ownerID string, ok bool) {
	recordID = chi.URLParam(r, "recordID")
	if recordID == "" {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Record ID is required")
		return "", "", false
	}
	if _, err := uuid.Parse(recordID); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid record ID format")
		return "", "", false
	}

	ownerID, found := common.GetOwnerID(r.Context())
	if !found {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return "", "", false
	}
	return recordID, ownerID, true
}

func (h *RecordHandler) respondCommandError(w http.ResponseWriter, message, ownerID string, err error) {
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		if appErr.HTTPStatus >= 500 {
			h.logger.Error(message, zap.String("ownerID", ownerID), zap.Error(err))
		}
		common.RespondErrorWithDetails(w, appErr.HTTPStatus, string(appErr.Type), appErr.Message, appErr.Details)
		return
	}
	if strings.Contains(err.Error(), "validation") {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	h.logger.Error(message, zap.String("ownerID", ownerID), zap.Error(err))
	common.RespondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}

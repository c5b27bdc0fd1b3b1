package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Rekrutin/rekrutinai-sub000/application/queries"
	querybus "github.com/Rekrutin/rekrutinai-sub000/application/queries/bus"
	"github.com/Rekrutin/rekrutinai-sub000/domain/alerts"
	"github.com/Rekrutin/rekrutinai-sub000/pkg/common"
	"github.com/Rekrutin/rekrutinai-sub000/pkg/utils"
)

// AlertHandler handles saved-search matching requests
type AlertHandler struct {
	queryBus *querybus.QueryBus
	logger   *zap.Logger
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(queryBus *querybus.QueryBus, logger *zap.Logger) *AlertHandler {
	return &AlertHandler{
		queryBus: queryBus,
		logger:   logger,
	}
}

// MatchAlertsRequest carries the posting feed and the saved searches to run
// over it. The engine never fetches postings itself.
type MatchAlertsRequest struct {
	Postings []alerts.Posting     `json:"postings" validate:"required"`
	Searches []alerts.SavedSearch `json:"searches" validate:"required"`
}

// MatchAlerts handles POST /alerts/match
func (h *AlertHandler) MatchAlerts(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := common.GetOwnerID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	var req MatchAlertsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.MatchAlertsQuery{
		OwnerID:  ownerID,
		Postings: req.Postings,
		Searches: req.Searches,
	})
	if err != nil {
		h.logger.Error("Failed to match alerts", zap.String("ownerID", ownerID), zap.Error(err))
		common.RespondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to match alerts")
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// QuotaHandler reports the owner's plan limits and usage
type QuotaHandler struct {
	queryBus *querybus.QueryBus
	logger   *zap.Logger
}

// NewQuotaHandler creates a new quota handler
func NewQuotaHandler(queryBus *querybus.QueryBus, logger *zap.Logger) *QuotaHandler {
	return &QuotaHandler{
		queryBus: queryBus,
		logger:   logger,
	}
}

// GetQuotaStatus handles GET /quota
func (h *QuotaHandler) GetQuotaStatus(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := common.GetOwnerID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetQuotaStatusQuery{OwnerID: ownerID})
	if err != nil {
		h.logger.Error("Failed to get quota status", zap.String("ownerID", ownerID), zap.Error(err))
		common.RespondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get quota status")
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

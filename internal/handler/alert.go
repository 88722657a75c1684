package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/paceboard/platform/internal/auth"
	"github.com/paceboard/platform/internal/domain"
	"github.com/paceboard/platform/internal/service"
)

// AlertHandler handles alert listing, acknowledgement and settings endpoints.
type AlertHandler struct {
	alerts *service.AlertService
}

// NewAlertHandler creates an AlertHandler.
func NewAlertHandler(alerts *service.AlertService) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// List handles GET /alerts.
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	agencyID, err := auth.AgencyIDFromContext(r.Context())
	if err != nil {
		RespondError(w, domain.ErrUnauthorized(err.Error()))
		return
	}

	alerts, err := h.alerts.List(r.Context(), agencyID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"alerts": alerts})
}

// MarkRead handles POST /alerts/{alertID}/read.
func (h *AlertHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	agencyID, id, err := h.alertIdentity(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	if err := h.alerts.MarkRead(r.Context(), agencyID, id); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// Delete handles DELETE /alerts/{alertID}.
func (h *AlertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	agencyID, id, err := h.alertIdentity(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	if err := h.alerts.Delete(r.Context(), agencyID, id); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetSettings handles GET /alerts/settings.
func (h *AlertHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	agencyID, err := auth.AgencyIDFromContext(r.Context())
	if err != nil {
		RespondError(w, domain.ErrUnauthorized(err.Error()))
		return
	}

	settings, err := h.alerts.GetSettings(r.Context(), agencyID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, settings)
}

// PutSettings handles PUT /alerts/settings.
func (h *AlertHandler) PutSettings(w http.ResponseWriter, r *http.Request) {
	agencyID, err := auth.AgencyIDFromContext(r.Context())
	if err != nil {
		RespondError(w, domain.ErrUnauthorized(err.Error()))
		return
	}

	var settings domain.AlertSettings
	if err := DecodeJSON(r, &settings); err != nil {
		RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}
	settings.AgencyID = agencyID

	if err := h.alerts.PutSettings(r.Context(), settings); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, settings)
}

// Evaluate handles POST /alerts/evaluate: an on-demand re-run of the rule
// engine for the agency.
func (h *AlertHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	agencyID, err := auth.AgencyIDFromContext(r.Context())
	if err != nil {
		RespondError(w, domain.ErrUnauthorized(err.Error()))
		return
	}

	raised, err := h.alerts.EvaluateAgency(r.Context(), agencyID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]int{"raised": raised})
}

func (h *AlertHandler) alertIdentity(r *http.Request) (agencyID, alertID uuid.UUID, err error) {
	agencyID, aerr := auth.AgencyIDFromContext(r.Context())
	if aerr != nil {
		return uuid.Nil, uuid.Nil, domain.ErrUnauthorized(aerr.Error())
	}
	alertID, perr := uuid.Parse(chi.URLParam(r, "alertID"))
	if perr != nil {
		return uuid.Nil, uuid.Nil, domain.ErrValidation("alert ID must be a UUID")
	}
	return agencyID, alertID, nil
}

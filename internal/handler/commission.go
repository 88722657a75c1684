package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paceboard/platform/internal/auth"
	"github.com/paceboard/platform/internal/domain"
	"github.com/paceboard/platform/internal/service"
)

// CommissionHandler handles per-client commission endpoints.
type CommissionHandler struct {
	commissions *service.CommissionService
}

// NewCommissionHandler creates a CommissionHandler.
func NewCommissionHandler(commissions *service.CommissionService) *CommissionHandler {
	return &CommissionHandler{commissions: commissions}
}

// Get handles GET /clients/{clientID}/commission.
func (h *CommissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.commissions.Get(r.Context(), chi.URLParam(r, "clientID"))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, c)
}

// putCommissionRequest is the body of PUT /clients/{clientID}/commission.
type putCommissionRequest struct {
	Type  domain.CommissionType `json:"type"`
	Value float64               `json:"value"`
}

// Put handles PUT /clients/{clientID}/commission.
func (h *CommissionHandler) Put(w http.ResponseWriter, r *http.Request) {
	agencyID, err := auth.AgencyIDFromContext(r.Context())
	if err != nil {
		RespondError(w, domain.ErrUnauthorized(err.Error()))
		return
	}

	var req putCommissionRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}

	c := domain.Commission{
		ClientID: chi.URLParam(r, "clientID"),
		Type:     req.Type,
		Value:    req.Value,
	}
	if err := h.commissions.Put(r.Context(), agencyID, c); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, c)
}

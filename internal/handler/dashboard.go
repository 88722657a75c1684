package handler

import (
	"net/http"
	"time"

	"github.com/paceboard/platform/internal/auth"
	"github.com/paceboard/platform/internal/domain"
	"github.com/paceboard/platform/internal/service"
)

// DashboardHandler serves the campaign list and KPI summary read paths.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// ListCampaigns handles GET /campaigns: every synced campaign with its
// allocation and pacing status.
func (h *DashboardHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	agencyID, err := auth.AgencyIDFromContext(r.Context())
	if err != nil {
		RespondError(w, domain.ErrUnauthorized(err.Error()))
		return
	}

	overviews, err := h.dashboard.BuildOverviews(r.Context(), agencyID, time.Now().UTC())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"campaigns": overviews})
}

// Summary handles GET /dashboard/summary.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	agencyID, err := auth.AgencyIDFromContext(r.Context())
	if err != nil {
		RespondError(w, domain.ErrUnauthorized(err.Error()))
		return
	}

	summary, err := h.dashboard.Summarize(r.Context(), agencyID, time.Now().UTC())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, summary)
}

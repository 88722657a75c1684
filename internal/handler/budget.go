package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/paceboard/platform/internal/auth"
	"github.com/paceboard/platform/internal/domain"
	"github.com/paceboard/platform/internal/service"
)

// BudgetHandler handles budget configuration and allocation endpoints.
type BudgetHandler struct {
	budgets *service.BudgetService
}

// NewBudgetHandler creates a BudgetHandler.
func NewBudgetHandler(budgets *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgets: budgets}
}

// saveBudgetRequest is the body of PUT /campaigns/{campaignID}/budget.
// Fixed budgets send start/end; recurring budgets send startMonth/endMonth.
type saveBudgetRequest struct {
	Type       domain.BudgetType `json:"type"`
	Start      string            `json:"start,omitempty"`
	End        string            `json:"end,omitempty"`
	StartMonth string            `json:"startMonth,omitempty"`
	EndMonth   string            `json:"endMonth,omitempty"`
	Amount     float64           `json:"amount"`
}

// GetConfig handles GET /campaigns/{campaignID}/budget.
func (h *BudgetHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.budgets.GetConfig(r.Context(), chi.URLParam(r, "campaignID"))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, cfg)
}

// SaveConfig handles PUT /campaigns/{campaignID}/budget. Overwriting a config
// of a different type requires ?confirm=true; without it the handler returns
// the BUDGET_TYPE_SWITCH conflict for the UI to surface as a warning.
func (h *BudgetHandler) SaveConfig(w http.ResponseWriter, r *http.Request) {
	agencyID, err := auth.AgencyIDFromContext(r.Context())
	if err != nil {
		RespondError(w, domain.ErrUnauthorized(err.Error()))
		return
	}

	var req saveBudgetRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}

	campaignID := chi.URLParam(r, "campaignID")
	confirm := r.URL.Query().Get("confirm") == "true"
	actor := actorFromContext(r)

	var cfg *domain.CampaignBudgetConfig
	switch req.Type {
	case domain.BudgetFixed:
		start, end, perr := parseDatePair(req.Start, req.End, domain.DateFormat)
		if perr != nil {
			RespondError(w, domain.ErrValidation(perr.Error()))
			return
		}
		cfg, err = h.budgets.SaveFixed(r.Context(), agencyID, campaignID, start, end, req.Amount, actor, confirm)
	case domain.BudgetRecurring:
		start, end, perr := parseDatePair(req.StartMonth, req.EndMonth, domain.MonthFormat)
		if perr != nil {
			RespondError(w, domain.ErrValidation(perr.Error()))
			return
		}
		cfg, err = h.budgets.SaveRecurring(r.Context(), agencyID, campaignID, start, end, req.Amount, actor, confirm)
	default:
		RespondError(w, domain.ErrValidation(fmt.Sprintf("unknown budget type: %q", req.Type)))
		return
	}
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, cfg)
}

// Allocate handles GET /campaigns/{campaignID}/budget/allocation?windowStart=&windowEnd=.
func (h *BudgetHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDatePair(r.URL.Query().Get("windowStart"), r.URL.Query().Get("windowEnd"), domain.DateFormat)
	if err != nil {
		RespondError(w, domain.ErrValidation(err.Error()))
		return
	}

	alloc, aerr := h.budgets.Allocate(r.Context(), chi.URLParam(r, "campaignID"), start, end)
	if aerr != nil {
		RespondError(w, aerr)
		return
	}
	RespondJSON(w, http.StatusOK, alloc)
}

// SuggestExtension handles GET /campaigns/{campaignID}/budget/extension?newEnd=.
func (h *BudgetHandler) SuggestExtension(w http.ResponseWriter, r *http.Request) {
	newEnd, err := time.Parse(domain.DateFormat, r.URL.Query().Get("newEnd"))
	if err != nil {
		RespondError(w, domain.ErrValidation("newEnd must be a date in YYYY-MM-DD form"))
		return
	}

	suggestion, serr := h.budgets.SuggestExtension(r.Context(), chi.URLParam(r, "campaignID"), newEnd)
	if serr != nil {
		RespondError(w, serr)
		return
	}
	RespondJSON(w, http.StatusOK, suggestion)
}

// extendRequest is the body of POST /campaigns/{campaignID}/budget/extension.
type extendRequest struct {
	NewEnd    string  `json:"newEnd"`
	AddAmount float64 `json:"addAmount"`
}

// Extend handles POST /campaigns/{campaignID}/budget/extension.
func (h *BudgetHandler) Extend(w http.ResponseWriter, r *http.Request) {
	agencyID, err := auth.AgencyIDFromContext(r.Context())
	if err != nil {
		RespondError(w, domain.ErrUnauthorized(err.Error()))
		return
	}

	var req extendRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}
	newEnd, err := time.Parse(domain.DateFormat, req.NewEnd)
	if err != nil {
		RespondError(w, domain.ErrValidation("newEnd must be a date in YYYY-MM-DD form"))
		return
	}

	cfg, err := h.budgets.Extend(r.Context(), agencyID, chi.URLParam(r, "campaignID"), newEnd, req.AddAmount, actorFromContext(r))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, cfg)
}

func parseDatePair(startStr, endStr, layout string) (time.Time, time.Time, error) {
	start, err := time.Parse(layout, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start date %q must match %s", startStr, layout)
	}
	end, err := time.Parse(layout, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %q must match %s", endStr, layout)
	}
	return start, end, nil
}

func actorFromContext(r *http.Request) string {
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		return claims.Email
	}
	return ""
}

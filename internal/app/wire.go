package app

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paceboard/platform/internal/auth"
	"github.com/paceboard/platform/internal/handler"
	"github.com/paceboard/platform/internal/infra"
	"github.com/paceboard/platform/internal/service"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Pool        *pgxpool.Pool
	JWTMgr      *auth.JWTManager
	Logger      *slog.Logger
	Budgets     *service.BudgetService
	Dashboard   *service.DashboardService
	Alerts      *service.AlertService
	Commissions *service.CommissionService
	SyncTask    *infra.PeriodicTask
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	budgetHandler := handler.NewBudgetHandler(deps.Budgets)
	dashboardHandler := handler.NewDashboardHandler(deps.Dashboard)
	alertHandler := handler.NewAlertHandler(deps.Alerts)
	commissionHandler := handler.NewCommissionHandler(deps.Commissions)
	syncHandler := handler.NewSyncHandler(deps.SyncTask)

	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(deps.Logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(deps.Logger))
	r.Use(handler.CORS)
	r.Use(handler.JSONContentType)

	// Health (no auth)
	r.Get("/health", handler.HealthHandler(deps.Pool))

	// Agency-authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.AuthenticateAgency(deps.JWTMgr))

		r.Get("/campaigns", dashboardHandler.ListCampaigns)
		r.Get("/dashboard/summary", dashboardHandler.Summary)

		r.Route("/campaigns/{campaignID}/budget", func(r chi.Router) {
			r.Get("/", budgetHandler.GetConfig)
			r.Put("/", budgetHandler.SaveConfig)
			r.Get("/allocation", budgetHandler.Allocate)
			r.Get("/extension", budgetHandler.SuggestExtension)
			r.Post("/extension", budgetHandler.Extend)
		})

		r.Get("/clients/{clientID}/commission", commissionHandler.Get)
		r.Put("/clients/{clientID}/commission", commissionHandler.Put)

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", alertHandler.List)
			r.Get("/settings", alertHandler.GetSettings)
			r.Put("/settings", alertHandler.PutSettings)
			r.Post("/evaluate", alertHandler.Evaluate)
			r.Post("/{alertID}/read", alertHandler.MarkRead)
			r.Delete("/{alertID}", alertHandler.Delete)
		})

		// Manual sync is restricted to managers and admins.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole("manager", "admin"))
			r.Post("/sync/run", syncHandler.Run)
		})
	})

	return r
}

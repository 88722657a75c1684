package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paceboard/platform/internal/app"
	"github.com/paceboard/platform/internal/auth"
	"github.com/paceboard/platform/internal/guard"
	"github.com/paceboard/platform/internal/infra"
	"github.com/paceboard/platform/internal/provider"
	"github.com/paceboard/platform/internal/repository"
	"github.com/paceboard/platform/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Connect to Postgres
	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to postgres")

	if err := infra.RunMigrations(cfg.DSN(), logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	agencyExpiry, err := time.ParseDuration(cfg.JWTAgencyExpiry)
	if err != nil {
		return fmt.Errorf("parse agency JWT expiry: %w", err)
	}
	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, agencyExpiry)

	// Repositories
	configRepo := repository.NewBudgetConfigRepository()
	commissionRepo := repository.NewCommissionRepository()
	campaignRepo := repository.NewCampaignRepository()
	accountRepo := repository.NewAccountRepository()
	settingsRepo := repository.NewAlertSettingsRepository()
	alertRepo := repository.NewAlertRepository()
	outboxRepo := repository.NewAlertOutboxRepository()

	// Ad-platform sources
	sources := []provider.CampaignSource{
		provider.NewSearchAdsClient(cfg.SearchAdsBaseURL, cfg.SearchAdsAPIKey, logger),
		provider.NewSocialAdsClient(cfg.SocialAdsBaseURL, cfg.SocialAdsAPIKey, logger),
	}
	breaker := guard.NewCircuitBreaker(5, 2*time.Minute)
	cache := infra.NewCampaignCache(cfg.CampaignCacheTTL)

	// Services
	budgetSvc := service.NewBudgetService(pool, configRepo, campaignRepo, logger)
	dashboardSvc := service.NewDashboardService(pool, accountRepo, campaignRepo, configRepo, commissionRepo, cache, logger)
	alertSvc := service.NewAlertService(pool, dashboardSvc, accountRepo, settingsRepo, alertRepo, outboxRepo, logger)
	commissionSvc := service.NewCommissionService(pool, commissionRepo, logger)
	syncSvc := service.NewSyncService(pool, accountRepo, campaignRepo, sources, breaker, cache, logger)

	// Background jobs: campaign sync and alert re-evaluation on fixed
	// intervals, each with an overlap guard.
	syncTask := infra.NewPeriodicTask("campaign-sync", cfg.SyncInterval, syncSvc.SyncAll, logger)
	syncTask.Start(ctx)
	defer syncTask.Stop()

	alertTask := infra.NewPeriodicTask("alert-evaluation", cfg.AlertInterval, alertSvc.EvaluateAll, logger)
	alertTask.Start(ctx)
	defer alertTask.Stop()

	// In-process outbox publisher. Run cmd/alert-publisher instead when
	// publishing should survive API restarts independently.
	producer := infra.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaEnabled, logger)
	defer producer.Close()
	publisher := service.NewAlertPublisher(pool, outboxRepo, producer, logger)
	publisher.Start(ctx)

	router := app.NewRouter(app.RouterDeps{
		Pool:        pool,
		JWTMgr:      jwtMgr,
		Logger:      logger,
		Budgets:     budgetSvc,
		Dashboard:   dashboardSvc,
		Alerts:      alertSvc,
		Commissions: commissionSvc,
		SyncTask:    syncTask,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.APIPort),
		Handler: router,
	}

	go func() {
		logger.Info("api server listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/slabworks/slabstock-backend/internal/audits"
	"github.com/slabworks/slabstock-backend/internal/cron"
	"github.com/slabworks/slabstock-backend/internal/items"
	"github.com/slabworks/slabstock-backend/internal/masters"
	"github.com/slabworks/slabstock-backend/pkg/config"
	"github.com/slabworks/slabstock-backend/pkg/db"
	"github.com/slabworks/slabstock-backend/pkg/logger"
	"github.com/slabworks/slabstock-backend/pkg/metrics"
	"github.com/slabworks/slabstock-backend/pkg/migrate"
	"github.com/slabworks/slabstock-backend/pkg/sheet"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), dbClient, cfg, logg); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	store, err := sheet.NewStore(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to create sheet store", err)
		os.Exit(1)
	}

	itemRepo, err := items.NewRepository(store)
	requireResource(logg, "item repository", err)
	locationRepo, err := masters.NewLocationRepository(store)
	requireResource(logg, "location repository", err)
	sessionRepo, err := audits.NewSessionRepository(store)
	requireResource(logg, "session repository", err)
	detailRepo, err := audits.NewDetailRepository(store)
	requireResource(logg, "detail repository", err)

	reconcileJob, err := cron.NewAuditReconcileJob(cron.AuditReconcileJobParams{
		Logger:      logg,
		SessionRepo: sessionRepo,
		DetailRepo:  detailRepo,
		ItemRepo:    itemRepo,
	})
	requireResource(logg, "reconcile job", err)
	dueJob, err := cron.NewAuditDueJob(cron.AuditDueJobParams{
		Logger:       logg,
		LocationRepo: locationRepo,
		DueAfter:     cfg.Audit.DueAfter,
	})
	requireResource(logg, "audit due job", err)

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(reconcileJob, dueJob),
		Lock:     cron.NewLocalLock(),
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	requireResource(logg, "cron service", err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+resource, err)
	os.Exit(1)
}

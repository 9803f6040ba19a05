package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/slabworks/slabstock-backend/api/routes"
	"github.com/slabworks/slabstock-backend/internal/audits"
	"github.com/slabworks/slabstock-backend/internal/costs"
	"github.com/slabworks/slabstock-backend/internal/items"
	"github.com/slabworks/slabstock-backend/internal/masters"
	"github.com/slabworks/slabstock-backend/internal/sales"
	"github.com/slabworks/slabstock-backend/pkg/config"
	"github.com/slabworks/slabstock-backend/pkg/db"
	"github.com/slabworks/slabstock-backend/pkg/logger"
	"github.com/slabworks/slabstock-backend/pkg/migrate"
	"github.com/slabworks/slabstock-backend/pkg/sheet"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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
	costRepo, err := costs.NewRepository(store)
	requireResource(logg, "cost repository", err)
	woodTypeRepo, err := masters.NewWoodTypeRepository(store)
	requireResource(logg, "wood type repository", err)
	supplierRepo, err := masters.NewSupplierRepository(store)
	requireResource(logg, "supplier repository", err)
	processorRepo, err := masters.NewProcessorRepository(store)
	requireResource(logg, "processor repository", err)
	locationRepo, err := masters.NewLocationRepository(store)
	requireResource(logg, "location repository", err)
	sessionRepo, err := audits.NewSessionRepository(store)
	requireResource(logg, "session repository", err)
	detailRepo, err := audits.NewDetailRepository(store)
	requireResource(logg, "detail repository", err)

	mastersService, err := masters.NewService(woodTypeRepo, supplierRepo, processorRepo, locationRepo)
	requireResource(logg, "masters service", err)
	itemsService, err := items.NewService(itemRepo, locationRepo, supplierRepo, dbClient, cfg.Inventory.LongStockAfter)
	requireResource(logg, "items service", err)
	costsService, err := costs.NewService(costRepo, itemRepo, processorRepo, dbClient)
	requireResource(logg, "costs service", err)
	salesService, err := sales.NewService(itemRepo, cfg.Audit.SalesCancelWindow)
	requireResource(logg, "sales service", err)
	auditsService, err := audits.NewService(sessionRepo, detailRepo, itemRepo, locationRepo, dbClient, logg)
	requireResource(logg, "audits service", err)

	for name, ensure := range map[string]func(context.Context) error{
		"masters": mastersService.EnsureSheets,
		"items":   itemsService.EnsureSheet,
		"costs":   costsService.EnsureSheet,
		"audits":  auditsService.EnsureSheets,
	} {
		if err := ensure(context.Background()); err != nil {
			logg.Error(context.Background(), "failed to ensure sheet headers: "+name, err)
			os.Exit(1)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Registry: registry,
			Items:    itemsService,
			Masters:  mastersService,
			Costs:    costsService,
			Sales:    salesService,
			Audits:   auditsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+resource, err)
	os.Exit(1)
}

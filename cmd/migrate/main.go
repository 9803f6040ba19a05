package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/slabworks/slabstock-backend/pkg/config"
	"github.com/slabworks/slabstock-backend/pkg/db"
	"github.com/slabworks/slabstock-backend/pkg/logger"
	"github.com/slabworks/slabstock-backend/pkg/migrate"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})
	if err := migrate.Run(ctx, dbClient, cfg, logg); err != nil {
		logg.Error(ctx, "migrations failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "migrations applied")
}

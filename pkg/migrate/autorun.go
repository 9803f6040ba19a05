package migrate

import (
	"context"

	"github.com/slabworks/slabstock-backend/pkg/config"
	"github.com/slabworks/slabstock-backend/pkg/db"
	"github.com/slabworks/slabstock-backend/pkg/logger"
)

// MaybeRunDev applies migrations at startup in development environments.
// Production deploys run the migrate command explicitly.
func MaybeRunDev(ctx context.Context, client *db.Client, cfg *config.Config, logg *logger.Logger) error {
	if !cfg.App.IsDev() {
		return nil
	}
	if !cfg.FeatureFlags.AutoMigrate {
		logg.Info(ctx, "auto migration disabled, skipping")
		return nil
	}
	return Run(ctx, client, cfg, logg)
}

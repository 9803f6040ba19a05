package migrate

import (
	"context"
	"embed"

	"github.com/pressly/goose/v3"

	"github.com/slabworks/slabstock-backend/pkg/config"
	"github.com/slabworks/slabstock-backend/pkg/db"
	apperrors "github.com/slabworks/slabstock-backend/pkg/errors"
	"github.com/slabworks/slabstock-backend/pkg/logger"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Run applies every pending migration against the client's database.
func Run(ctx context.Context, client *db.Client, cfg *config.Config, logg *logger.Logger) error {
	if client == nil {
		return apperrors.New(apperrors.CodeInternal, "migrate requires a database client")
	}
	dialect, err := dialectFor(cfg.DB.Driver)
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrationFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "failed to set migration dialect")
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "failed to unwrap sql database")
	}
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "failed to apply migrations")
	}

	logg.Info(ctx, "database migrations applied")
	return nil
}

func dialectFor(driver string) (string, error) {
	switch driver {
	case config.DriverPostgres:
		return "postgres", nil
	case config.DriverSQLite:
		return "sqlite3", nil
	default:
		return "", apperrors.New(apperrors.CodeValidation, "unsupported database driver").
			WithDetails(map[string]any{"driver": driver})
	}
}

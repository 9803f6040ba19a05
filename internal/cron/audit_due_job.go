package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/slabworks/slabstock-backend/pkg/logger"
	"github.com/slabworks/slabstock-backend/pkg/models"
)

// AuditDueJobParams configures the overdue-stocktake report.
type AuditDueJobParams struct {
	Logger       *logger.Logger
	LocationRepo dueLocationRepository
	DueAfter     time.Duration
}

type dueLocationRepository interface {
	FindAll(ctx context.Context) ([]models.StorageLocation, error)
}

// NewAuditDueJob constructs the job that flags storage locations whose
// last stocktake is older than the configured interval. Locations never
// audited count as overdue.
func NewAuditDueJob(params AuditDueJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.LocationRepo == nil {
		return nil, fmt.Errorf("location repository required")
	}
	if params.DueAfter <= 0 {
		return nil, fmt.Errorf("due-after interval must be positive")
	}
	return &auditDueJob{
		logg:      params.Logger,
		locations: params.LocationRepo,
		dueAfter:  params.DueAfter,
		now:       time.Now,
	}, nil
}

type auditDueJob struct {
	logg      *logger.Logger
	locations dueLocationRepository
	dueAfter  time.Duration
	now       func() time.Time
}

func (j *auditDueJob) Name() string { return "audit-due" }

func (j *auditDueJob) Run(ctx context.Context) error {
	locations, err := j.locations.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("query storage locations: %w", err)
	}
	cutoff := j.now().Add(-j.dueAfter)
	overdue := 0
	for _, location := range locations {
		if location.LastAuditDate != nil && location.LastAuditDate.After(cutoff) {
			continue
		}
		overdue++
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"storage_location_id": location.ID,
			"location_name":       location.Name,
			"last_audit_date":     location.LastAuditDate,
		})
		j.logg.Warn(logCtx, "storage location is due for a stocktake")
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"overdue": overdue, "total": len(locations)})
	j.logg.Info(logCtx, "stocktake due check complete")
	return nil
}

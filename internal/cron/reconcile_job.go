package cron

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/slabworks/slabstock-backend/pkg/enums"
	"github.com/slabworks/slabstock-backend/pkg/logger"
	"github.com/slabworks/slabstock-backend/pkg/models"
)

// AuditReconcileJobParams configures the stocktake reconcile sweep.
type AuditReconcileJobParams struct {
	Logger      *logger.Logger
	SessionRepo reconcileSessionRepository
	DetailRepo  reconcileDetailRepository
	ItemRepo    reconcileItemRepository
}

type reconcileSessionRepository interface {
	FindByStatus(ctx context.Context, statuses ...enums.AuditSessionStatus) ([]models.AuditSession, error)
	Update(ctx context.Context, id string, apply func(*models.AuditSession)) (*models.AuditSession, error)
}

type reconcileDetailRepository interface {
	FindBySessionID(ctx context.Context, sessionID string) ([]models.AuditDetail, error)
}

type reconcileItemRepository interface {
	FindByStatus(ctx context.Context, statuses ...enums.ItemStatus) ([]models.Item, error)
	Update(ctx context.Context, id string, apply func(*models.Item)) (*models.Item, error)
}

// NewAuditReconcileJob constructs the reconcile sweep. It settles items
// left in the auditing status after their session closed and rewrites
// session counters that drifted from the detail rows. The sweep is
// idempotent; running it twice changes nothing the second time.
func NewAuditReconcileJob(params AuditReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.SessionRepo == nil {
		return nil, fmt.Errorf("session repository required")
	}
	if params.DetailRepo == nil {
		return nil, fmt.Errorf("detail repository required")
	}
	if params.ItemRepo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	return &auditReconcileJob{
		logg:     params.Logger,
		sessions: params.SessionRepo,
		details:  params.DetailRepo,
		items:    params.ItemRepo,
	}, nil
}

type auditReconcileJob struct {
	logg     *logger.Logger
	sessions reconcileSessionRepository
	details  reconcileDetailRepository
	items    reconcileItemRepository
}

func (j *auditReconcileJob) Name() string { return "audit-reconcile" }

func (j *auditReconcileJob) Run(ctx context.Context) error {
	var errs []error
	if err := j.releaseStrandedItems(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := j.repairSessionCounts(ctx); err != nil {
		errs = append(errs, err)
	}
	return multierr.Combine(errs...)
}

// releaseStrandedItems reverts auditing items that no open session still
// tracks. Missing items were flipped to lost when the discrepancy was
// reported, so anything stranded here goes back to available.
func (j *auditReconcileJob) releaseStrandedItems(ctx context.Context) error {
	auditing, err := j.items.FindByStatus(ctx, enums.ItemStatusAuditing)
	if err != nil {
		return fmt.Errorf("query auditing items: %w", err)
	}
	if len(auditing) == 0 {
		return nil
	}

	tracked, err := j.openSessionItemIDs(ctx)
	if err != nil {
		return err
	}

	var errs []error
	count := 0
	for _, item := range auditing {
		if tracked[item.ID] {
			continue
		}
		if _, err := j.items.Update(ctx, item.ID, func(i *models.Item) {
			i.Status = enums.ItemStatusAvailable
		}); err != nil {
			errs = append(errs, fmt.Errorf("release item %s: %w", item.ID, err))
			continue
		}
		count++
	}
	if count > 0 {
		logCtx := j.logg.WithFields(ctx, map[string]any{"count": count})
		j.logg.Warn(logCtx, "released items stranded in auditing status")
	}
	return multierr.Combine(errs...)
}

func (j *auditReconcileJob) openSessionItemIDs(ctx context.Context) (map[string]bool, error) {
	open, err := j.sessions.FindByStatus(ctx, enums.AuditSessionStatusActive, enums.AuditSessionStatusPaused)
	if err != nil {
		return nil, fmt.Errorf("query open sessions: %w", err)
	}
	tracked := make(map[string]bool)
	for _, session := range open {
		details, err := j.details.FindBySessionID(ctx, session.ID)
		if err != nil {
			return nil, fmt.Errorf("load details for %s: %w", session.ID, err)
		}
		for _, detail := range details {
			tracked[detail.ItemID] = true
		}
	}
	return tracked, nil
}

// repairSessionCounts recomputes open sessions' aggregates from their
// detail rows.
func (j *auditReconcileJob) repairSessionCounts(ctx context.Context) error {
	open, err := j.sessions.FindByStatus(ctx, enums.AuditSessionStatusActive, enums.AuditSessionStatusPaused)
	if err != nil {
		return fmt.Errorf("query open sessions: %w", err)
	}
	var errs []error
	for _, session := range open {
		details, err := j.details.FindBySessionID(ctx, session.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("load details for %s: %w", session.ID, err))
			continue
		}
		confirmed, discrepant := 0, 0
		for _, detail := range details {
			switch detail.ConfirmationStatus {
			case enums.ConfirmationStatusConfirmed:
				confirmed++
			case enums.ConfirmationStatusDiscrepant:
				discrepant++
			}
		}
		if session.ConfirmedCount == confirmed && session.DiscrepancyCount == discrepant {
			continue
		}
		if _, err := j.sessions.Update(ctx, session.ID, func(s *models.AuditSession) {
			s.ConfirmedCount = confirmed
			s.DiscrepancyCount = discrepant
		}); err != nil {
			errs = append(errs, fmt.Errorf("repair counts for %s: %w", session.ID, err))
			continue
		}
		logCtx := j.logg.WithSessionID(ctx, session.ID)
		j.logg.Warn(logCtx, "session counters drifted from detail rows, rewritten")
	}
	return multierr.Combine(errs...)
}

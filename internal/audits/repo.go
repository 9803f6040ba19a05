package audits

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/slabworks/slabstock-backend/pkg/enums"
	"github.com/slabworks/slabstock-backend/pkg/ids"
	"github.com/slabworks/slabstock-backend/pkg/models"
	"github.com/slabworks/slabstock-backend/pkg/sheet"
)

// SessionRepository persists stocktake sessions.
type SessionRepository struct {
	table *sheet.Table[models.AuditSession]
}

func NewSessionRepository(store *sheet.Store) (*SessionRepository, error) {
	table, err := sheet.NewTable[models.AuditSession](store, models.AuditSessionCodec{})
	if err != nil {
		return nil, err
	}
	return &SessionRepository{table: table}, nil
}

// WithTx returns a repository bound to the given transaction. A nil tx
// returns the receiver unchanged.
func (r *SessionRepository) WithTx(tx *gorm.DB) *SessionRepository {
	if tx == nil {
		return r
	}
	return &SessionRepository{table: r.table.WithTx(tx)}
}

func (r *SessionRepository) EnsureSheet(ctx context.Context) error {
	return r.table.EnsureSheet(ctx)
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.AuditSession, error) {
	return r.table.FindByID(ctx, id)
}

// FindAll returns every session, most recently started first.
func (r *SessionRepository) FindAll(ctx context.Context) ([]models.AuditSession, error) {
	all, err := r.table.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		switch {
		case all[i].StartedAt == nil:
			return false
		case all[j].StartedAt == nil:
			return true
		default:
			return all[i].StartedAt.After(*all[j].StartedAt)
		}
	})
	return all, nil
}

// FindActiveByLocation returns the location's currently active session,
// or nil. Paused and completed sessions are not returned.
func (r *SessionRepository) FindActiveByLocation(ctx context.Context, locationID string) (*models.AuditSession, error) {
	found, err := r.table.FindWhere(ctx, func(session models.AuditSession) bool {
		return session.StorageLocationID == locationID &&
			session.Status == enums.AuditSessionStatusActive
	})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

// FindByStatus returns sessions carrying one of the given statuses.
func (r *SessionRepository) FindByStatus(ctx context.Context, statuses ...enums.AuditSessionStatus) ([]models.AuditSession, error) {
	return r.table.FindWhere(ctx, func(session models.AuditSession) bool {
		for _, status := range statuses {
			if session.Status == status {
				return true
			}
		}
		return false
	})
}

// CreateInTx appends a session inside the given transaction.
func (r *SessionRepository) CreateInTx(ctx context.Context, tx *gorm.DB, session models.AuditSession) error {
	return r.WithTx(tx).table.Create(ctx, session)
}

func (r *SessionRepository) Update(ctx context.Context, id string, apply func(*models.AuditSession)) (*models.AuditSession, error) {
	return r.table.Update(ctx, id, apply)
}

// UpdateInTx rewrites a session inside the given transaction.
func (r *SessionRepository) UpdateInTx(ctx context.Context, tx *gorm.DB, id string, apply func(*models.AuditSession)) (*models.AuditSession, error) {
	return r.WithTx(tx).table.Update(ctx, id, apply)
}

// NextIDInTx allocates the next session identifier for day inside the
// given transaction. The sequence is scoped to sessions started on the
// same calendar date.
func (r *SessionRepository) NextIDInTx(ctx context.Context, tx *gorm.DB, day time.Time) (string, error) {
	all, err := r.WithTx(tx).table.FindAll(ctx)
	if err != nil {
		return "", err
	}
	existing := make([]string, 0, len(all))
	for _, session := range all {
		existing = append(existing, session.ID)
	}
	return ids.SessionID(day, ids.NextDailySequence(existing, day)), nil
}

// DetailRepository persists per-item stocktake lines.
type DetailRepository struct {
	table *sheet.Table[models.AuditDetail]
}

func NewDetailRepository(store *sheet.Store) (*DetailRepository, error) {
	table, err := sheet.NewTable[models.AuditDetail](store, models.AuditDetailCodec{})
	if err != nil {
		return nil, err
	}
	return &DetailRepository{table: table}, nil
}

// WithTx returns a repository bound to the given transaction. A nil tx
// returns the receiver unchanged.
func (r *DetailRepository) WithTx(tx *gorm.DB) *DetailRepository {
	if tx == nil {
		return r
	}
	return &DetailRepository{table: r.table.WithTx(tx)}
}

func (r *DetailRepository) EnsureSheet(ctx context.Context) error {
	return r.table.EnsureSheet(ctx)
}

func (r *DetailRepository) FindByID(ctx context.Context, id string) (*models.AuditDetail, error) {
	return r.table.FindByID(ctx, id)
}

// FindBySessionID returns the session's detail lines in creation order.
func (r *DetailRepository) FindBySessionID(ctx context.Context, sessionID string) ([]models.AuditDetail, error) {
	return r.table.FindWhere(ctx, func(detail models.AuditDetail) bool {
		return detail.SessionID == sessionID
	})
}

// FindBySessionAndItem returns the unique line for (session, item), or
// nil.
func (r *DetailRepository) FindBySessionAndItem(ctx context.Context, sessionID, itemID string) (*models.AuditDetail, error) {
	found, err := r.table.FindWhere(ctx, func(detail models.AuditDetail) bool {
		return detail.SessionID == sessionID && detail.ItemID == itemID
	})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

// CreateManyInTx appends detail lines in the given order inside the
// given transaction. Order matters: detail identifiers encode ordinal
// position.
func (r *DetailRepository) CreateManyInTx(ctx context.Context, tx *gorm.DB, details []models.AuditDetail) error {
	return r.WithTx(tx).table.CreateMany(ctx, details)
}

func (r *DetailRepository) Update(ctx context.Context, id string, apply func(*models.AuditDetail)) (*models.AuditDetail, error) {
	return r.table.Update(ctx, id, apply)
}

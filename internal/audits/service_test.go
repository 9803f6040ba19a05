package audits

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/slabworks/slabstock-backend/pkg/enums"
	apperrors "github.com/slabworks/slabstock-backend/pkg/errors"
	"github.com/slabworks/slabstock-backend/pkg/ids"
	"github.com/slabworks/slabstock-backend/pkg/logger"
	"github.com/slabworks/slabstock-backend/pkg/models"
	"github.com/slabworks/slabstock-backend/pkg/pagination"
)

type stubSessionRepo struct {
	sessions []models.AuditSession
}

func (s *stubSessionRepo) EnsureSheet(ctx context.Context) error { return nil }

func (s *stubSessionRepo) FindByID(ctx context.Context, id string) (*models.AuditSession, error) {
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			session := s.sessions[i]
			return &session, nil
		}
	}
	return nil, nil
}

func (s *stubSessionRepo) FindAll(ctx context.Context) ([]models.AuditSession, error) {
	return append([]models.AuditSession(nil), s.sessions...), nil
}

func (s *stubSessionRepo) FindActiveByLocation(ctx context.Context, locationID string) (*models.AuditSession, error) {
	for i := range s.sessions {
		if s.sessions[i].StorageLocationID == locationID &&
			s.sessions[i].Status == enums.AuditSessionStatusActive {
			session := s.sessions[i]
			return &session, nil
		}
	}
	return nil, nil
}

func (s *stubSessionRepo) FindByStatus(ctx context.Context, statuses ...enums.AuditSessionStatus) ([]models.AuditSession, error) {
	matched := make([]models.AuditSession, 0)
	for _, session := range s.sessions {
		for _, status := range statuses {
			if session.Status == status {
				matched = append(matched, session)
				break
			}
		}
	}
	return matched, nil
}

func (s *stubSessionRepo) CreateInTx(ctx context.Context, tx *gorm.DB, session models.AuditSession) error {
	s.sessions = append(s.sessions, session)
	return nil
}

func (s *stubSessionRepo) Update(ctx context.Context, id string, apply func(*models.AuditSession)) (*models.AuditSession, error) {
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			apply(&s.sessions[i])
			session := s.sessions[i]
			return &session, nil
		}
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "record not found")
}

func (s *stubSessionRepo) UpdateInTx(ctx context.Context, tx *gorm.DB, id string, apply func(*models.AuditSession)) (*models.AuditSession, error) {
	return s.Update(ctx, id, apply)
}

func (s *stubSessionRepo) NextIDInTx(ctx context.Context, tx *gorm.DB, day time.Time) (string, error) {
	existing := make([]string, 0, len(s.sessions))
	for _, session := range s.sessions {
		existing = append(existing, session.ID)
	}
	return ids.SessionID(day, ids.NextDailySequence(existing, day)), nil
}

type stubDetailRepo struct {
	details []models.AuditDetail
}

func (s *stubDetailRepo) EnsureSheet(ctx context.Context) error { return nil }

func (s *stubDetailRepo) FindByID(ctx context.Context, id string) (*models.AuditDetail, error) {
	for i := range s.details {
		if s.details[i].ID == id {
			detail := s.details[i]
			return &detail, nil
		}
	}
	return nil, nil
}

func (s *stubDetailRepo) FindBySessionID(ctx context.Context, sessionID string) ([]models.AuditDetail, error) {
	matched := make([]models.AuditDetail, 0)
	for _, detail := range s.details {
		if detail.SessionID == sessionID {
			matched = append(matched, detail)
		}
	}
	return matched, nil
}

func (s *stubDetailRepo) FindBySessionAndItem(ctx context.Context, sessionID, itemID string) (*models.AuditDetail, error) {
	for i := range s.details {
		if s.details[i].SessionID == sessionID && s.details[i].ItemID == itemID {
			detail := s.details[i]
			return &detail, nil
		}
	}
	return nil, nil
}

func (s *stubDetailRepo) CreateManyInTx(ctx context.Context, tx *gorm.DB, details []models.AuditDetail) error {
	s.details = append(s.details, details...)
	return nil
}

func (s *stubDetailRepo) Update(ctx context.Context, id string, apply func(*models.AuditDetail)) (*models.AuditDetail, error) {
	for i := range s.details {
		if s.details[i].ID == id {
			apply(&s.details[i])
			detail := s.details[i]
			return &detail, nil
		}
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "record not found")
}

type stubItemRepo struct {
	items []models.Item
}

func (s *stubItemRepo) FindByID(ctx context.Context, id string) (*models.Item, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			item := s.items[i]
			return &item, nil
		}
	}
	return nil, nil
}

func (s *stubItemRepo) FindByIDs(ctx context.Context, itemIDs []string) ([]models.Item, error) {
	wanted := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}
	matched := make([]models.Item, 0)
	for _, item := range s.items {
		if wanted[item.ID] {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func (s *stubItemRepo) FindByLocationAndStatus(ctx context.Context, locationID string, statuses ...enums.ItemStatus) ([]models.Item, error) {
	matched := make([]models.Item, 0)
	for _, item := range s.items {
		if item.StorageLocationID != locationID {
			continue
		}
		for _, status := range statuses {
			if item.Status == status {
				matched = append(matched, item)
				break
			}
		}
	}
	return matched, nil
}

func (s *stubItemRepo) Update(ctx context.Context, id string, apply func(*models.Item)) (*models.Item, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			apply(&s.items[i])
			item := s.items[i]
			return &item, nil
		}
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "record not found")
}

func (s *stubItemRepo) UpdateInTx(ctx context.Context, tx *gorm.DB, id string, apply func(*models.Item)) (*models.Item, error) {
	return s.Update(ctx, id, apply)
}

func (s *stubItemRepo) byID(id string) models.Item {
	for _, item := range s.items {
		if item.ID == id {
			return item
		}
	}
	return models.Item{}
}

type stubLocationRepo struct {
	locations []models.StorageLocation
}

func (s *stubLocationRepo) FindByID(ctx context.Context, id string) (*models.StorageLocation, error) {
	for i := range s.locations {
		if s.locations[i].ID == id {
			location := s.locations[i]
			return &location, nil
		}
	}
	return nil, nil
}

func (s *stubLocationRepo) UpdateInTx(ctx context.Context, tx *gorm.DB, id string, apply func(*models.StorageLocation)) (*models.StorageLocation, error) {
	for i := range s.locations {
		if s.locations[i].ID == id {
			apply(&s.locations[i])
			location := s.locations[i]
			return &location, nil
		}
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "record not found")
}

type stubTransactor struct{}

func (stubTransactor) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fixture struct {
	svc       Service
	sessions  *stubSessionRepo
	details   *stubDetailRepo
	items     *stubItemRepo
	locations *stubLocationRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		sessions: &stubSessionRepo{},
		details:  &stubDetailRepo{},
		items: &stubItemRepo{items: []models.Item{
			{ID: "ITA-0001", Status: enums.ItemStatusAvailable, StorageLocationID: "LOC-0001", Name: "Walnut slab A", WoodType: "walnut"},
			{ID: "ITA-0002", Status: enums.ItemStatusAvailable, StorageLocationID: "LOC-0001", Name: "Walnut slab B", WoodType: "walnut"},
			{ID: "ITA-0003", Status: enums.ItemStatusAvailable, StorageLocationID: "LOC-0001", Name: "Oak slab", WoodType: "oak"},
			{ID: "ITA-0004", Status: enums.ItemStatusSold, StorageLocationID: "LOC-0001"},
			{ID: "ITA-0005", Status: enums.ItemStatusAvailable, StorageLocationID: "LOC-0002"},
		}},
		locations: &stubLocationRepo{locations: []models.StorageLocation{
			{ID: "LOC-0001", Name: "Main warehouse"},
			{ID: "LOC-0002", Name: "Showroom"},
		}},
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(f.sessions, f.details, f.items, f.locations, stubTransactor{}, logg)
	require.NoError(t, err)
	svc.(*service).now = func() time.Time {
		return time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	}
	f.svc = svc
	return f
}

func TestStartSessionSnapshotsAvailableItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	session, err := f.svc.StartSession(ctx, "LOC-0001", "tanaka")
	require.NoError(t, err)
	require.Equal(t, "INV-20250520-001", session.ID)
	require.Equal(t, enums.AuditSessionStatusActive, session.Status)
	require.Equal(t, 3, session.TargetCount)

	require.Len(t, f.details.details, 3)
	require.Equal(t, "INV-20250520-001-0001", f.details.details[0].ID)
	require.Equal(t, "INV-20250520-001-0003", f.details.details[2].ID)
	for _, detail := range f.details.details {
		require.Equal(t, enums.ConfirmationStatusUnconfirmed, detail.ConfirmationStatus)
	}

	// Only the snapshotted items flip to auditing.
	require.Equal(t, enums.ItemStatusAuditing, f.items.byID("ITA-0001").Status)
	require.Equal(t, enums.ItemStatusSold, f.items.byID("ITA-0004").Status)
	require.Equal(t, enums.ItemStatusAvailable, f.items.byID("ITA-0005").Status)
}

func TestStartSessionRejectsSecondActiveSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.StartSession(ctx, "LOC-0001", "tanaka")
	require.NoError(t, err)

	_, err = f.svc.StartSession(ctx, "LOC-0001", "suzuki")
	require.Error(t, err)
	require.Equal(t, "SESSION_ALREADY_ACTIVE", apperrors.As(err).Reason())
}

func TestStartSessionAllowedWhilePaused(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.StartSession(ctx, "LOC-0001", "tanaka")
	require.NoError(t, err)
	_, err = f.svc.PauseSession(ctx, first.ID, "tanaka")
	require.NoError(t, err)

	// An item shelved after the first snapshot was taken.
	f.items.items = append(f.items.items, models.Item{
		ID: "ITA-0006", Status: enums.ItemStatusAvailable, StorageLocationID: "LOC-0001",
	})

	second, err := f.svc.StartSession(ctx, "LOC-0001", "suzuki")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, 1, second.TargetCount)

	details, err := f.details.FindBySessionID(ctx, second.ID)
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.Equal(t, "ITA-0006", details[0].ItemID)

	// The paused session keeps its own lines and targets.
	paused, err := f.sessions.FindByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, enums.AuditSessionStatusPaused, paused.Status)
	require.Equal(t, 3, paused.TargetCount)
}

func TestStartSessionRequiresTargets(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.items.items = nil

	_, err := f.svc.StartSession(ctx, "LOC-0001", "tanaka")
	require.Error(t, err)
	require.Equal(t, "NO_TARGET_PRODUCTS", apperrors.As(err).Reason())
	require.Empty(t, f.sessions.sessions)
}

func TestStartSessionUnknownLocation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.StartSession(ctx, "LOC-0099", "tanaka")
	require.Error(t, err)
	require.Equal(t, "LOCATION_NOT_FOUND", apperrors.As(err).Reason())
}

func TestConfirmAllThenComplete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	session, err := f.svc.StartSession(ctx, "LOC-0001", "tanaka")
	require.NoError(t, err)

	_, err = f.svc.ConfirmItem(ctx, session.ID, "ITA-0001", enums.ConfirmationMethodQRScan, "tanaka")
	require.NoError(t, err)
	_, err = f.svc.ConfirmItem(ctx, session.ID, "ITA-0002", enums.ConfirmationMethodListSelect, "tanaka")
	require.NoError(t, err)

	// One line still unconfirmed.
	_, err = f.svc.CompleteSession(ctx, session.ID, "tanaka")
	require.Error(t, err)
	require.Equal(t, "HAS_UNCONFIRMED_PRODUCTS", apperrors.As(err).Reason())

	_, err = f.svc.ConfirmItem(ctx, session.ID, "ITA-0003", enums.ConfirmationMethodManual, "tanaka")
	require.NoError(t, err)

	completed, err := f.svc.CompleteSession(ctx, session.ID, "tanaka")
	require.NoError(t, err)
	require.Equal(t, enums.AuditSessionStatusCompleted, completed.Status)
	require.Equal(t, 3, completed.ConfirmedCount)
	require.Zero(t, completed.DiscrepancyCount)
	require.NotNil(t, completed.CompletedAt)
	require.Equal(t, "tanaka", completed.CompletedBy)

	item := f.items.byID("ITA-0001")
	require.Equal(t, enums.ItemStatusAvailable, item.Status)
	require.NotNil(t, item.LastAuditDate)
	require.NotNil(t, f.locations.locations[0].LastAuditDate)
}

func TestConfirmRejectsDuplicateAndOutsiders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	session, err := f.svc.StartSession(ctx, "LOC-0001", "tanaka")
	require.NoError(t, err)

	_, err = f.svc.ConfirmItem(ctx, session.ID, "ITA-0001", enums.ConfirmationMethodQRScan, "tanaka")
	require.NoError(t, err)

	_, err = f.svc.ConfirmItem(ctx, session.ID, "ITA-0001", enums.ConfirmationMethodQRScan, "tanaka")
	require.Error(t, err)
	require.Equal(t, "ALREADY_CONFIRMED", apperrors.As(err).Reason())

	_, err = f.svc.ConfirmItem(ctx, session.ID, "ITA-0005", enums.ConfirmationMethodQRScan, "tanaka")
	require.Error(t, err)
	require.Equal(t, "PRODUCT_NOT_IN_SESSION", apperrors.As(err).Reason())
}

func TestMissingItemMarkedLostImmediately(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	session, err := f.svc.StartSession(ctx, "LOC-0001", "tanaka")
	require.NoError(t, err)

	detail, err := f.details.FindBySessionAndItem(ctx, session.ID, "ITA-0002")
	require.NoError(t, err)

	updated, err := f.svc.ReportDiscrepancy(ctx, DiscrepancyInput{
		SessionID: session.ID,
		DetailID:  detail.ID,
		Kind:      enums.DiscrepancyKindMissing,
		Reason:    "not on rack",
	}, "tanaka")
	require.NoError(t, err)
	require.Equal(t, enums.ConfirmationStatusDiscrepant, updated.ConfirmationStatus)

	// Lost is applied right away, not at completion.
	require.Equal(t, enums.ItemStatusLost, f.items.byID("ITA-0002").Status)

	stored, err := f.sessions.FindByID(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stored.DiscrepancyCount)
}

func TestDiscrepancyRejectsDetailFromOtherSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	session, err := f.svc.StartSession(ctx, "LOC-0001", "tanaka")
	require.NoError(t, err)
	detail, err := f.details.FindBySessionAndItem(ctx, session.ID, "ITA-0001")
	require.NoError(t, err)

	_, err = f.svc.ReportDiscrepancy(ctx, DiscrepancyInput{
		SessionID: "INV-20250519-001",
		DetailID:  detail.ID,
		Kind:      enums.DiscrepancyKindMissing,
		Reason:    "not on rack",
	}, "tanaka")
	require.Error(t, err)
	require.Equal(t, "PRODUCT_NOT_IN_SESSION", apperrors.As(err).Reason())

	// The line is untouched and the item keeps its status.
	stored, err := f.details.FindByID(ctx, detail.ID)
	require.NoError(t, err)
	require.Equal(t, enums.ConfirmationStatusUnconfirmed, stored.ConfirmationStatus)
	require.Equal(t, enums.ItemStatusAuditing, f.items.byID("ITA-0001").Status)
}

func TestPauseBlocksConfirmResumeRestores(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	session, err := f.svc.StartSession(ctx, "LOC-0001", "tanaka")
	require.NoError(t, err)

	_, err = f.svc.PauseSession(ctx, session.ID, "tanaka")
	require.NoError(t, err)

	_, err = f.svc.ConfirmItem(ctx, session.ID, "ITA-0001", enums.ConfirmationMethodQRScan, "tanaka")
	require.Error(t, err)
	require.Equal(t, "SESSION_NOT_ACTIVE", apperrors.As(err).Reason())

	_, err = f.svc.ResumeSession(ctx, session.ID, "tanaka")
	require.NoError(t, err)

	_, err = f.svc.ConfirmItem(ctx, session.ID, "ITA-0001", enums.ConfirmationMethodQRScan, "tanaka")
	require.NoError(t, err)
}

func TestResumeRequiresPaused(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	session, err := f.svc.StartSession(ctx, "LOC-0001", "tanaka")
	require.NoError(t, err)

	_, err = f.svc.ResumeSession(ctx, session.ID, "tanaka")
	require.Error(t, err)
	require.Equal(t, "SESSION_NOT_PAUSED", apperrors.As(err).Reason())
}

func TestCompleteIsTerminal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	session, err := f.svc.StartSession(ctx, "LOC-0001", "tanaka")
	require.NoError(t, err)
	for _, id := range []string{"ITA-0001", "ITA-0002", "ITA-0003"} {
		_, err = f.svc.ConfirmItem(ctx, session.ID, id, enums.ConfirmationMethodQRScan, "tanaka")
		require.NoError(t, err)
	}
	_, err = f.svc.CompleteSession(ctx, session.ID, "tanaka")
	require.NoError(t, err)

	_, err = f.svc.CompleteSession(ctx, session.ID, "tanaka")
	require.Error(t, err)
	require.Equal(t, "SESSION_ALREADY_COMPLETED", apperrors.As(err).Reason())

	_, err = f.svc.PauseSession(ctx, session.ID, "tanaka")
	require.Error(t, err)
	require.Equal(t, "SESSION_NOT_ACTIVE", apperrors.As(err).Reason())
}

func TestProgressReportBucketsAndPercent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	session, err := f.svc.StartSession(ctx, "LOC-0001", "tanaka")
	require.NoError(t, err)

	_, err = f.svc.ConfirmItem(ctx, session.ID, "ITA-0001", enums.ConfirmationMethodQRScan, "tanaka")
	require.NoError(t, err)
	detail, err := f.details.FindBySessionAndItem(ctx, session.ID, "ITA-0002")
	require.NoError(t, err)
	_, err = f.svc.ReportDiscrepancy(ctx, DiscrepancyInput{
		SessionID: session.ID,
		DetailID:  detail.ID,
		Kind:      enums.DiscrepancyKindWrongLocation,
		Reason:    "found in showroom",
	}, "tanaka")
	require.NoError(t, err)

	report, err := f.svc.Progress(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, "Main warehouse", report.StorageLocationName)
	require.Equal(t, 3, report.TargetCount)
	require.Equal(t, 1, report.ConfirmedCount)
	require.Equal(t, 1, report.DiscrepancyCount)
	require.Equal(t, 67, report.ProgressPercent)
	require.Len(t, report.UnconfirmedItems, 1)
	require.Len(t, report.ConfirmedItems, 1)
	require.Len(t, report.DiscrepancyItems, 1)
	require.Equal(t, "Walnut slab A", report.ConfirmedItems[0].ItemName)
}

func TestActiveSessionsAndHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	started := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	f.sessions.sessions = []models.AuditSession{
		{ID: "INV-20250501-001", StorageLocationID: "LOC-0002", Status: enums.AuditSessionStatusCompleted, StartedAt: &started},
		{ID: "INV-20250502-001", StorageLocationID: "LOC-0002", Status: enums.AuditSessionStatusPaused, StartedAt: &started},
	}

	active, err := f.svc.ActiveSessions(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "INV-20250502-001", active[0].ID)

	history, err := f.svc.History(ctx, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 2, history.Total)
	require.Len(t, history.Data, 2)
}

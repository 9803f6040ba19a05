package cron

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slabworks/slabstock-backend/pkg/enums"
	apperrors "github.com/slabworks/slabstock-backend/pkg/errors"
	"github.com/slabworks/slabstock-backend/pkg/logger"
	"github.com/slabworks/slabstock-backend/pkg/models"
)

type stubSessionRepo struct {
	sessions []models.AuditSession
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

type stubDetailRepo struct {
	details []models.AuditDetail
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

type stubItemRepo struct {
	items []models.Item
}

func (s *stubItemRepo) FindByStatus(ctx context.Context, statuses ...enums.ItemStatus) ([]models.Item, error) {
	matched := make([]models.Item, 0)
	for _, item := range s.items {
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

func (s *stubItemRepo) byID(id string) models.Item {
	for _, item := range s.items {
		if item.ID == id {
			return item
		}
	}
	return models.Item{}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestReconcileReleasesStrandedItems(t *testing.T) {
	ctx := context.Background()
	sessions := &stubSessionRepo{sessions: []models.AuditSession{
		{ID: "INV-20250501-001", Status: enums.AuditSessionStatusCompleted},
		{ID: "INV-20250502-001", Status: enums.AuditSessionStatusActive},
	}}
	details := &stubDetailRepo{details: []models.AuditDetail{
		{ID: "INV-20250502-001-0001", SessionID: "INV-20250502-001", ItemID: "ITA-0002", ConfirmationStatus: enums.ConfirmationStatusUnconfirmed},
	}}
	items := &stubItemRepo{items: []models.Item{
		// Stranded: its session completed without settling it.
		{ID: "ITA-0001", Status: enums.ItemStatusAuditing},
		// Still tracked by the open session.
		{ID: "ITA-0002", Status: enums.ItemStatusAuditing},
		{ID: "ITA-0003", Status: enums.ItemStatusSold},
	}}

	job, err := NewAuditReconcileJob(AuditReconcileJobParams{
		Logger:      testLogger(),
		SessionRepo: sessions,
		DetailRepo:  details,
		ItemRepo:    items,
	})
	require.NoError(t, err)

	require.NoError(t, job.Run(ctx))
	require.Equal(t, enums.ItemStatusAvailable, items.byID("ITA-0001").Status)
	require.Equal(t, enums.ItemStatusAuditing, items.byID("ITA-0002").Status)
	require.Equal(t, enums.ItemStatusSold, items.byID("ITA-0003").Status)

	// A second pass changes nothing.
	require.NoError(t, job.Run(ctx))
	require.Equal(t, enums.ItemStatusAvailable, items.byID("ITA-0001").Status)
}

func TestReconcileRepairsDriftedCounts(t *testing.T) {
	ctx := context.Background()
	sessions := &stubSessionRepo{sessions: []models.AuditSession{
		{ID: "INV-20250502-001", Status: enums.AuditSessionStatusActive, TargetCount: 3, ConfirmedCount: 0, DiscrepancyCount: 0},
	}}
	details := &stubDetailRepo{details: []models.AuditDetail{
		{ID: "INV-20250502-001-0001", SessionID: "INV-20250502-001", ItemID: "ITA-0001", ConfirmationStatus: enums.ConfirmationStatusConfirmed},
		{ID: "INV-20250502-001-0002", SessionID: "INV-20250502-001", ItemID: "ITA-0002", ConfirmationStatus: enums.ConfirmationStatusDiscrepant},
		{ID: "INV-20250502-001-0003", SessionID: "INV-20250502-001", ItemID: "ITA-0003", ConfirmationStatus: enums.ConfirmationStatusUnconfirmed},
	}}
	items := &stubItemRepo{}

	job, err := NewAuditReconcileJob(AuditReconcileJobParams{
		Logger:      testLogger(),
		SessionRepo: sessions,
		DetailRepo:  details,
		ItemRepo:    items,
	})
	require.NoError(t, err)

	require.NoError(t, job.Run(ctx))
	require.Equal(t, 1, sessions.sessions[0].ConfirmedCount)
	require.Equal(t, 1, sessions.sessions[0].DiscrepancyCount)
}

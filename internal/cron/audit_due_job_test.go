package cron

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/slabworks/slabstock-backend/pkg/logger"
	"github.com/slabworks/slabstock-backend/pkg/models"
)

type stubLocationRepo struct {
	locations []models.StorageLocation
}

func (s *stubLocationRepo) FindAll(ctx context.Context) ([]models.StorageLocation, error) {
	return append([]models.StorageLocation(nil), s.locations...), nil
}

func TestAuditDueFlagsOverdueLocations(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	recent := now.Add(-30 * 24 * time.Hour)
	stale := now.Add(-120 * 24 * time.Hour)
	repo := &stubLocationRepo{locations: []models.StorageLocation{
		{ID: "LOC-0001", Name: "Main warehouse", LastAuditDate: &recent},
		{ID: "LOC-0002", Name: "Showroom", LastAuditDate: &stale},
		{ID: "LOC-0003", Name: "Annex"},
	}}

	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &buf})
	job, err := NewAuditDueJob(AuditDueJobParams{
		Logger:       logg,
		LocationRepo: repo,
		DueAfter:     90 * 24 * time.Hour,
	})
	require.NoError(t, err)
	job.(*auditDueJob).now = func() time.Time { return now }

	require.NoError(t, job.Run(ctx))
	out := buf.String()
	require.NotContains(t, out, "LOC-0001")
	require.Contains(t, out, "LOC-0002")
	require.Contains(t, out, "LOC-0003")
	require.Contains(t, out, `"overdue":2`)
}

func TestAuditDueRequiresPositiveInterval(t *testing.T) {
	_, err := NewAuditDueJob(AuditDueJobParams{
		Logger:       testLogger(),
		LocationRepo: &stubLocationRepo{},
		DueAfter:     0,
	})
	require.Error(t, err)
}

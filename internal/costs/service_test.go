package costs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/slabworks/slabstock-backend/pkg/enums"
	apperrors "github.com/slabworks/slabstock-backend/pkg/errors"
	"github.com/slabworks/slabstock-backend/pkg/ids"
	"github.com/slabworks/slabstock-backend/pkg/models"
)

type stubCostRepo struct {
	costs []models.ProcessingCost
}

func (s *stubCostRepo) EnsureSheet(ctx context.Context) error { return nil }

func (s *stubCostRepo) FindByID(ctx context.Context, id string) (*models.ProcessingCost, error) {
	for i := range s.costs {
		if s.costs[i].ID == id {
			cost := s.costs[i]
			return &cost, nil
		}
	}
	return nil, nil
}

func (s *stubCostRepo) FindByItemID(ctx context.Context, itemID string) ([]models.ProcessingCost, error) {
	matched := make([]models.ProcessingCost, 0)
	for _, cost := range s.costs {
		if cost.ItemID == itemID {
			matched = append(matched, cost)
		}
	}
	return matched, nil
}

func (s *stubCostRepo) CreateInTx(ctx context.Context, tx *gorm.DB, cost models.ProcessingCost) error {
	s.costs = append(s.costs, cost)
	return nil
}

func (s *stubCostRepo) Update(ctx context.Context, id string, apply func(*models.ProcessingCost)) (*models.ProcessingCost, error) {
	for i := range s.costs {
		if s.costs[i].ID == id {
			apply(&s.costs[i])
			cost := s.costs[i]
			return &cost, nil
		}
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "record not found")
}

func (s *stubCostRepo) Delete(ctx context.Context, id string) error { return nil }

func (s *stubCostRepo) NextIDInTx(ctx context.Context, tx *gorm.DB) (string, error) {
	existing := make([]string, 0, len(s.costs))
	for _, cost := range s.costs {
		existing = append(existing, cost.ID)
	}
	return ids.CostID(ids.NextSequence(existing, ids.CostPrefix)), nil
}

type stubItemReader struct {
	items map[string]models.Item
}

func (s *stubItemReader) FindByID(ctx context.Context, id string) (*models.Item, error) {
	if item, ok := s.items[id]; ok {
		return &item, nil
	}
	return nil, nil
}

type stubProcessorReader struct {
	processors map[string]models.Processor
}

func (s *stubProcessorReader) FindByID(ctx context.Context, id string) (*models.Processor, error) {
	if processor, ok := s.processors[id]; ok {
		return &processor, nil
	}
	return nil, nil
}

type stubTransactor struct{}

func (stubTransactor) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T) (Service, *stubCostRepo) {
	t.Helper()
	repo := &stubCostRepo{}
	items := &stubItemReader{items: map[string]models.Item{
		"ITA-0001": {ID: "ITA-0001", Status: enums.ItemStatusAvailable},
	}}
	processors := &stubProcessorReader{processors: map[string]models.Processor{
		"PROC-0001": {ID: "PROC-0001", Name: "Finishing Works"},
	}}
	svc, err := NewService(repo, items, processors, stubTransactor{})
	require.NoError(t, err)
	return svc, repo
}

func TestCreateCostAllocatesSixDigitID(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	created, err := svc.Create(ctx, CreateInput{
		ItemID:         "ITA-0001",
		ProcessingType: "finishing",
		ProcessorID:    "PROC-0001",
		Amount:         25000,
	})
	require.NoError(t, err)
	require.Equal(t, "COST-000001", created.ID)
	require.Equal(t, enums.ProcessingTypeFinishing, created.Type)
	require.Len(t, repo.costs, 1)
}

func TestCreateCostRejectsUnknownItem(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, CreateInput{
		ItemID:         "ITA-0099",
		ProcessingType: "legs",
		ProcessorID:    "PROC-0001",
		Amount:         5000,
	})
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.Equal(t, apperrors.CodeValidation, appErr.Code())
	require.Equal(t, "PRODUCT_NOT_FOUND", appErr.Reason())
}

func TestSummaryTotalsAndEnriches(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	repo.costs = []models.ProcessingCost{
		{ID: "COST-000001", ItemID: "ITA-0001", ProcessorID: "PROC-0001", Amount: 10000},
		{ID: "COST-000002", ItemID: "ITA-0001", ProcessorID: "PROC-0001", Amount: 2500},
		{ID: "COST-000003", ItemID: "ITA-0002", ProcessorID: "PROC-0001", Amount: 99999},
	}

	summary, err := svc.SummaryForItem(ctx, "ITA-0001")
	require.NoError(t, err)
	require.Equal(t, 2, summary.ItemCount)
	require.Equal(t, 12500.0, summary.TotalAmount)
	require.Equal(t, "Finishing Works", summary.Lines[0].ProcessorName)
}

func TestUpdateCostValidatesAmount(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	repo.costs = []models.ProcessingCost{{ID: "COST-000001", ItemID: "ITA-0001", Amount: 10000}}

	bad := -5.0
	_, err := svc.Update(ctx, "COST-000001", UpdateInput{Amount: &bad})
	require.Error(t, err)

	good := 7500.0
	updated, err := svc.Update(ctx, "COST-000001", UpdateInput{Amount: &good})
	require.NoError(t, err)
	require.Equal(t, 7500.0, updated.Amount)
}

package masters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/slabworks/slabstock-backend/pkg/errors"
	"github.com/slabworks/slabstock-backend/pkg/ids"
	"github.com/slabworks/slabstock-backend/pkg/models"
)

type stubWoodTypeRepo struct {
	items []models.WoodType
}

func (s *stubWoodTypeRepo) EnsureSheet(ctx context.Context) error { return nil }

func (s *stubWoodTypeRepo) FindAll(ctx context.Context) ([]models.WoodType, error) {
	return s.items, nil
}

func (s *stubWoodTypeRepo) FindByID(ctx context.Context, id string) (*models.WoodType, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], nil
		}
	}
	return nil, nil
}

func (s *stubWoodTypeRepo) Create(ctx context.Context, woodType models.WoodType) error {
	s.items = append(s.items, woodType)
	return nil
}

func (s *stubWoodTypeRepo) Update(ctx context.Context, id string, apply func(*models.WoodType)) (*models.WoodType, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			apply(&s.items[i])
			return &s.items[i], nil
		}
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "record not found")
}

func (s *stubWoodTypeRepo) Delete(ctx context.Context, id string) error {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return apperrors.New(apperrors.CodeNotFound, "record not found")
}

func (s *stubWoodTypeRepo) NextID(ctx context.Context) (string, error) {
	existing := make([]string, 0, len(s.items))
	for _, w := range s.items {
		existing = append(existing, w.ID)
	}
	return ids.WoodTypeID(ids.NextSequence(existing, ids.WoodTypePrefix)), nil
}

type stubSupplierRepo struct {
	items []models.Supplier
}

func (s *stubSupplierRepo) EnsureSheet(ctx context.Context) error { return nil }

func (s *stubSupplierRepo) FindAll(ctx context.Context) ([]models.Supplier, error) {
	return s.items, nil
}

func (s *stubSupplierRepo) FindByID(ctx context.Context, id string) (*models.Supplier, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], nil
		}
	}
	return nil, nil
}

func (s *stubSupplierRepo) Create(ctx context.Context, supplier models.Supplier) error {
	s.items = append(s.items, supplier)
	return nil
}

func (s *stubSupplierRepo) Update(ctx context.Context, id string, apply func(*models.Supplier)) (*models.Supplier, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			apply(&s.items[i])
			return &s.items[i], nil
		}
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "record not found")
}

func (s *stubSupplierRepo) Delete(ctx context.Context, id string) error { return nil }

func (s *stubSupplierRepo) NextID(ctx context.Context) (string, error) {
	return ids.SupplierID(len(s.items) + 1), nil
}

type stubProcessorRepo struct {
	items []models.Processor
}

func (s *stubProcessorRepo) EnsureSheet(ctx context.Context) error { return nil }

func (s *stubProcessorRepo) FindAll(ctx context.Context) ([]models.Processor, error) {
	return s.items, nil
}

func (s *stubProcessorRepo) FindByID(ctx context.Context, id string) (*models.Processor, error) {
	return nil, nil
}

func (s *stubProcessorRepo) Create(ctx context.Context, processor models.Processor) error {
	s.items = append(s.items, processor)
	return nil
}

func (s *stubProcessorRepo) Update(ctx context.Context, id string, apply func(*models.Processor)) (*models.Processor, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			apply(&s.items[i])
			return &s.items[i], nil
		}
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "record not found")
}

func (s *stubProcessorRepo) Delete(ctx context.Context, id string) error { return nil }

func (s *stubProcessorRepo) NextID(ctx context.Context) (string, error) {
	return ids.ProcessorID(len(s.items) + 1), nil
}

type stubLocationRepo struct {
	items []models.StorageLocation
}

func (s *stubLocationRepo) EnsureSheet(ctx context.Context) error { return nil }

func (s *stubLocationRepo) FindAll(ctx context.Context) ([]models.StorageLocation, error) {
	return s.items, nil
}

func (s *stubLocationRepo) FindByID(ctx context.Context, id string) (*models.StorageLocation, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], nil
		}
	}
	return nil, nil
}

func (s *stubLocationRepo) Create(ctx context.Context, location models.StorageLocation) error {
	s.items = append(s.items, location)
	return nil
}

func (s *stubLocationRepo) Update(ctx context.Context, id string, apply func(*models.StorageLocation)) (*models.StorageLocation, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			apply(&s.items[i])
			return &s.items[i], nil
		}
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "record not found")
}

func (s *stubLocationRepo) Delete(ctx context.Context, id string) error { return nil }

func (s *stubLocationRepo) NextID(ctx context.Context) (string, error) {
	return ids.LocationID(len(s.items) + 1), nil
}

func newTestService(t *testing.T) (Service, *stubWoodTypeRepo, *stubLocationRepo) {
	t.Helper()
	woodTypes := &stubWoodTypeRepo{}
	locations := &stubLocationRepo{}
	svc, err := NewService(woodTypes, &stubSupplierRepo{}, &stubProcessorRepo{}, locations)
	require.NoError(t, err)
	return svc, woodTypes, locations
}

func TestCreateWoodTypeAllocatesSequentialID(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)
	repo.items = []models.WoodType{
		{ID: "WOOD-0001", Name: "Walnut", DisplayOrder: 1},
		{ID: "WOOD-0003", Name: "Oak", DisplayOrder: 2},
	}

	created, err := svc.CreateWoodType(ctx, CreateWoodTypeInput{Name: "Cedar"})
	require.NoError(t, err)
	require.Equal(t, "WOOD-0004", created.ID)
	require.Equal(t, 3, created.DisplayOrder)
}

func TestCreateWoodTypeRejectsDuplicateName(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)
	repo.items = []models.WoodType{{ID: "WOOD-0001", Name: "Walnut"}}

	_, err := svc.CreateWoodType(ctx, CreateWoodTypeInput{Name: "walnut"})
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, apperrors.CodeConflict, appErr.Code())
	require.Equal(t, "NAME_ALREADY_EXISTS", appErr.Reason())
}

func TestCreateProcessorValidatesTypes(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.CreateProcessor(ctx, CreateProcessorInput{
		Name:            "Finishing Works",
		ProcessingTypes: []string{"finishing", "sanding"},
	})
	require.Error(t, err)
	require.Equal(t, apperrors.CodeValidation, apperrors.As(err).Code())

	created, err := svc.CreateProcessor(ctx, CreateProcessorInput{
		Name:            "Finishing Works",
		ProcessingTypes: []string{"finishing", "legs"},
	})
	require.NoError(t, err)
	require.Equal(t, "PROC-0001", created.ID)
	require.Len(t, created.ProcessingTypes, 2)
}

func TestGetLocationMissing(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.GetLocation(ctx, "LOC-0009")
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.Equal(t, apperrors.CodeNotFound, appErr.Code())
	require.Equal(t, "LOCATION_NOT_FOUND", appErr.Reason())
}

func TestUpdateLocationMergesFields(t *testing.T) {
	ctx := context.Background()
	svc, _, locations := newTestService(t)
	locations.items = []models.StorageLocation{{ID: "LOC-0001", Name: "Showroom", DisplayOrder: 1}}

	name := "Main showroom"
	updated, err := svc.UpdateLocation(ctx, "LOC-0001", UpdateLocationInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Main showroom", updated.Name)
	require.Equal(t, 1, updated.DisplayOrder)
}

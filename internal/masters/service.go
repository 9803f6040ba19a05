package masters

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/slabworks/slabstock-backend/pkg/enums"
	apperrors "github.com/slabworks/slabstock-backend/pkg/errors"
	"github.com/slabworks/slabstock-backend/pkg/models"
)

type woodTypeRepository interface {
	EnsureSheet(ctx context.Context) error
	FindAll(ctx context.Context) ([]models.WoodType, error)
	FindByID(ctx context.Context, id string) (*models.WoodType, error)
	Create(ctx context.Context, woodType models.WoodType) error
	Update(ctx context.Context, id string, apply func(*models.WoodType)) (*models.WoodType, error)
	Delete(ctx context.Context, id string) error
	NextID(ctx context.Context) (string, error)
}

type supplierRepository interface {
	EnsureSheet(ctx context.Context) error
	FindAll(ctx context.Context) ([]models.Supplier, error)
	FindByID(ctx context.Context, id string) (*models.Supplier, error)
	Create(ctx context.Context, supplier models.Supplier) error
	Update(ctx context.Context, id string, apply func(*models.Supplier)) (*models.Supplier, error)
	Delete(ctx context.Context, id string) error
	NextID(ctx context.Context) (string, error)
}

type processorRepository interface {
	EnsureSheet(ctx context.Context) error
	FindAll(ctx context.Context) ([]models.Processor, error)
	FindByID(ctx context.Context, id string) (*models.Processor, error)
	Create(ctx context.Context, processor models.Processor) error
	Update(ctx context.Context, id string, apply func(*models.Processor)) (*models.Processor, error)
	Delete(ctx context.Context, id string) error
	NextID(ctx context.Context) (string, error)
}

type locationRepository interface {
	EnsureSheet(ctx context.Context) error
	FindAll(ctx context.Context) ([]models.StorageLocation, error)
	FindByID(ctx context.Context, id string) (*models.StorageLocation, error)
	Create(ctx context.Context, location models.StorageLocation) error
	Update(ctx context.Context, id string, apply func(*models.StorageLocation)) (*models.StorageLocation, error)
	Delete(ctx context.Context, id string) error
	NextID(ctx context.Context) (string, error)
}

// Service exposes master data maintenance.
type Service interface {
	EnsureSheets(ctx context.Context) error

	ListWoodTypes(ctx context.Context) ([]models.WoodType, error)
	CreateWoodType(ctx context.Context, input CreateWoodTypeInput) (*models.WoodType, error)
	UpdateWoodType(ctx context.Context, id string, input UpdateWoodTypeInput) (*models.WoodType, error)
	DeleteWoodType(ctx context.Context, id string) error

	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
	CreateSupplier(ctx context.Context, input CreateSupplierInput) (*models.Supplier, error)
	UpdateSupplier(ctx context.Context, id string, input UpdateSupplierInput) (*models.Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error

	ListProcessors(ctx context.Context) ([]models.Processor, error)
	CreateProcessor(ctx context.Context, input CreateProcessorInput) (*models.Processor, error)
	UpdateProcessor(ctx context.Context, id string, input UpdateProcessorInput) (*models.Processor, error)
	DeleteProcessor(ctx context.Context, id string) error

	ListLocations(ctx context.Context) ([]models.StorageLocation, error)
	CreateLocation(ctx context.Context, input CreateLocationInput) (*models.StorageLocation, error)
	UpdateLocation(ctx context.Context, id string, input UpdateLocationInput) (*models.StorageLocation, error)
	DeleteLocation(ctx context.Context, id string) error
	GetLocation(ctx context.Context, id string) (*models.StorageLocation, error)
}

type service struct {
	woodTypes  woodTypeRepository
	suppliers  supplierRepository
	processors processorRepository
	locations  locationRepository
}

// NewService constructs the master data service.
func NewService(woodTypes woodTypeRepository, suppliers supplierRepository, processors processorRepository, locations locationRepository) (Service, error) {
	if woodTypes == nil {
		return nil, fmt.Errorf("wood type repository required")
	}
	if suppliers == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	if processors == nil {
		return nil, fmt.Errorf("processor repository required")
	}
	if locations == nil {
		return nil, fmt.Errorf("location repository required")
	}
	return &service{
		woodTypes:  woodTypes,
		suppliers:  suppliers,
		processors: processors,
		locations:  locations,
	}, nil
}

func (s *service) EnsureSheets(ctx context.Context) error {
	if err := s.woodTypes.EnsureSheet(ctx); err != nil {
		return err
	}
	if err := s.suppliers.EnsureSheet(ctx); err != nil {
		return err
	}
	if err := s.processors.EnsureSheet(ctx); err != nil {
		return err
	}
	return s.locations.EnsureSheet(ctx)
}

type CreateWoodTypeInput struct {
	Name         string `json:"name" validate:"required"`
	DisplayOrder int    `json:"displayOrder"`
}

type UpdateWoodTypeInput struct {
	Name         *string `json:"name,omitempty"`
	DisplayOrder *int    `json:"displayOrder,omitempty"`
}

func (s *service) ListWoodTypes(ctx context.Context) ([]models.WoodType, error) {
	return s.woodTypes.FindAll(ctx)
}

func (s *service) CreateWoodType(ctx context.Context, input CreateWoodTypeInput) (*models.WoodType, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "wood type name is required")
	}
	existing, err := s.woodTypes.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, w := range existing {
		if strings.EqualFold(w.Name, name) {
			return nil, nameConflict("wood type", name)
		}
	}
	order := input.DisplayOrder
	if order <= 0 {
		order = len(existing) + 1
	}
	id, err := s.woodTypes.NextID(ctx)
	if err != nil {
		return nil, err
	}
	woodType := models.WoodType{ID: id, Name: name, DisplayOrder: order}
	if err := s.woodTypes.Create(ctx, woodType); err != nil {
		return nil, err
	}
	return &woodType, nil
}

func (s *service) UpdateWoodType(ctx context.Context, id string, input UpdateWoodTypeInput) (*models.WoodType, error) {
	return s.woodTypes.Update(ctx, id, func(w *models.WoodType) {
		if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
			w.Name = strings.TrimSpace(*input.Name)
		}
		if input.DisplayOrder != nil {
			w.DisplayOrder = *input.DisplayOrder
		}
	})
}

func (s *service) DeleteWoodType(ctx context.Context, id string) error {
	return s.woodTypes.Delete(ctx, id)
}

type CreateSupplierInput struct {
	Name    string `json:"name" validate:"required"`
	Contact string `json:"contact"`
	Address string `json:"address"`
	Remarks string `json:"remarks"`
}

type UpdateSupplierInput struct {
	Name    *string `json:"name,omitempty"`
	Contact *string `json:"contact,omitempty"`
	Address *string `json:"address,omitempty"`
	Remarks *string `json:"remarks,omitempty"`
}

func (s *service) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return s.suppliers.FindAll(ctx)
}

func (s *service) CreateSupplier(ctx context.Context, input CreateSupplierInput) (*models.Supplier, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "supplier name is required")
	}
	existing, err := s.suppliers.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, sup := range existing {
		if strings.EqualFold(sup.Name, name) {
			return nil, nameConflict("supplier", name)
		}
	}
	id, err := s.suppliers.NextID(ctx)
	if err != nil {
		return nil, err
	}
	supplier := models.Supplier{
		ID:      id,
		Name:    name,
		Contact: input.Contact,
		Address: input.Address,
		Remarks: input.Remarks,
	}
	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (s *service) UpdateSupplier(ctx context.Context, id string, input UpdateSupplierInput) (*models.Supplier, error) {
	return s.suppliers.Update(ctx, id, func(sup *models.Supplier) {
		if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
			sup.Name = strings.TrimSpace(*input.Name)
		}
		if input.Contact != nil {
			sup.Contact = *input.Contact
		}
		if input.Address != nil {
			sup.Address = *input.Address
		}
		if input.Remarks != nil {
			sup.Remarks = *input.Remarks
		}
	})
}

func (s *service) DeleteSupplier(ctx context.Context, id string) error {
	return s.suppliers.Delete(ctx, id)
}

type CreateProcessorInput struct {
	Name            string   `json:"name" validate:"required"`
	ProcessingTypes []string `json:"processingTypes" validate:"required,min=1"`
	Contact         string   `json:"contact"`
	Address         string   `json:"address"`
	Remarks         string   `json:"remarks"`
}

type UpdateProcessorInput struct {
	Name            *string  `json:"name,omitempty"`
	ProcessingTypes []string `json:"processingTypes,omitempty"`
	Contact         *string  `json:"contact,omitempty"`
	Address         *string  `json:"address,omitempty"`
	Remarks         *string  `json:"remarks,omitempty"`
}

func (s *service) ListProcessors(ctx context.Context) ([]models.Processor, error) {
	return s.processors.FindAll(ctx)
}

func (s *service) CreateProcessor(ctx context.Context, input CreateProcessorInput) (*models.Processor, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "processor name is required")
	}
	types, err := parseProcessingTypes(input.ProcessingTypes)
	if err != nil {
		return nil, err
	}
	existing, err := s.processors.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range existing {
		if strings.EqualFold(p.Name, name) {
			return nil, nameConflict("processor", name)
		}
	}
	id, err := s.processors.NextID(ctx)
	if err != nil {
		return nil, err
	}
	processor := models.Processor{
		ID:              id,
		Name:            name,
		ProcessingTypes: types,
		Contact:         input.Contact,
		Address:         input.Address,
		Remarks:         input.Remarks,
	}
	if err := s.processors.Create(ctx, processor); err != nil {
		return nil, err
	}
	return &processor, nil
}

func (s *service) UpdateProcessor(ctx context.Context, id string, input UpdateProcessorInput) (*models.Processor, error) {
	var types []enums.ProcessingType
	if input.ProcessingTypes != nil {
		parsed, err := parseProcessingTypes(input.ProcessingTypes)
		if err != nil {
			return nil, err
		}
		types = parsed
	}
	return s.processors.Update(ctx, id, func(p *models.Processor) {
		if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
			p.Name = strings.TrimSpace(*input.Name)
		}
		if types != nil {
			p.ProcessingTypes = types
		}
		if input.Contact != nil {
			p.Contact = *input.Contact
		}
		if input.Address != nil {
			p.Address = *input.Address
		}
		if input.Remarks != nil {
			p.Remarks = *input.Remarks
		}
	})
}

func (s *service) DeleteProcessor(ctx context.Context, id string) error {
	return s.processors.Delete(ctx, id)
}

type CreateLocationInput struct {
	Name         string `json:"name" validate:"required"`
	DisplayOrder int    `json:"displayOrder"`
}

type UpdateLocationInput struct {
	Name         *string `json:"name,omitempty"`
	DisplayOrder *int    `json:"displayOrder,omitempty"`
}

func (s *service) ListLocations(ctx context.Context) ([]models.StorageLocation, error) {
	return s.locations.FindAll(ctx)
}

func (s *service) GetLocation(ctx context.Context, id string) (*models.StorageLocation, error) {
	location, err := s.locations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "storage location not found").
			WithReason("LOCATION_NOT_FOUND").
			WithDetails(map[string]any{"storageLocationId": id})
	}
	return location, nil
}

func (s *service) CreateLocation(ctx context.Context, input CreateLocationInput) (*models.StorageLocation, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "location name is required")
	}
	existing, err := s.locations.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range existing {
		if strings.EqualFold(l.Name, name) {
			return nil, nameConflict("storage location", name)
		}
	}
	order := input.DisplayOrder
	if order <= 0 {
		order = len(existing) + 1
	}
	id, err := s.locations.NextID(ctx)
	if err != nil {
		return nil, err
	}
	location := models.StorageLocation{ID: id, Name: name, DisplayOrder: order}
	if err := s.locations.Create(ctx, location); err != nil {
		return nil, err
	}
	return &location, nil
}

func (s *service) UpdateLocation(ctx context.Context, id string, input UpdateLocationInput) (*models.StorageLocation, error) {
	return s.locations.Update(ctx, id, func(l *models.StorageLocation) {
		if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
			l.Name = strings.TrimSpace(*input.Name)
		}
		if input.DisplayOrder != nil {
			l.DisplayOrder = *input.DisplayOrder
		}
	})
}

func (s *service) DeleteLocation(ctx context.Context, id string) error {
	return s.locations.Delete(ctx, id)
}

func parseProcessingTypes(raw []string) ([]enums.ProcessingType, error) {
	if len(raw) == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "at least one processing type is required")
	}
	types := make([]enums.ProcessingType, 0, len(raw))
	for _, value := range raw {
		parsed, err := enums.ParseProcessingType(strings.TrimSpace(value))
		if err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, "invalid processing type").
				WithDetails(map[string]any{"processingType": value})
		}
		types = append(types, parsed)
	}
	return types, nil
}

func nameConflict(kind, name string) error {
	return apperrors.New(apperrors.CodeConflict, kind+" name already exists").
		WithReason("NAME_ALREADY_EXISTS").
		WithDetails(map[string]any{"name": name})
}

// TouchLastAudit stamps a location's last audit date. Used by the
// stocktake flow at session completion.
func TouchLastAudit(location *models.StorageLocation, when time.Time) {
	day := time.Date(when.Year(), when.Month(), when.Day(), 0, 0, 0, 0, when.Location())
	location.LastAuditDate = &day
}

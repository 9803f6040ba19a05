package items

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/slabworks/slabstock-backend/pkg/enums"
	apperrors "github.com/slabworks/slabstock-backend/pkg/errors"
	"github.com/slabworks/slabstock-backend/pkg/models"
	"github.com/slabworks/slabstock-backend/pkg/pagination"
)

type itemRepository interface {
	EnsureSheet(ctx context.Context) error
	FindAll(ctx context.Context) ([]models.Item, error)
	FindByID(ctx context.Context, id string) (*models.Item, error)
	FindWithPagination(ctx context.Context, params pagination.Params, pred func(models.Item) bool) (*pagination.Result[models.Item], error)
	CreateInTx(ctx context.Context, tx *gorm.DB, item models.Item) error
	Update(ctx context.Context, id string, apply func(*models.Item)) (*models.Item, error)
	NextIDInTx(ctx context.Context, tx *gorm.DB) (string, error)
}

type locationReader interface {
	FindByID(ctx context.Context, id string) (*models.StorageLocation, error)
}

type supplierReader interface {
	FindByID(ctx context.Context, id string) (*models.Supplier, error)
}

type transactor interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes stock item maintenance.
type Service interface {
	EnsureSheet(ctx context.Context) error
	List(ctx context.Context, params pagination.Params, filter Filter) (*pagination.Result[models.Item], error)
	Get(ctx context.Context, id string) (*Detail, error)
	Create(ctx context.Context, input CreateInput, actor string) (*models.Item, error)
	Update(ctx context.Context, id string, input UpdateInput, actor string) (*models.Item, error)
	UpdateStatus(ctx context.Context, id string, status enums.ItemStatus, actor string) (*models.Item, error)
	Relocate(ctx context.Context, id, locationID, actor string) (*models.Item, error)
	SoftDelete(ctx context.Context, id, reason, actor string) error
	Restore(ctx context.Context, id, actor string) (*models.Item, error)
	ListLongStock(ctx context.Context, now time.Time) ([]models.Item, error)
}

type service struct {
	repo           itemRepository
	locations      locationReader
	suppliers      supplierReader
	tx             transactor
	longStockAfter time.Duration
}

// NewService constructs the item service.
func NewService(repo itemRepository, locations locationReader, suppliers supplierReader, tx transactor, longStockAfter time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if locations == nil {
		return nil, fmt.Errorf("location repository required")
	}
	if suppliers == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transactor required")
	}
	if longStockAfter <= 0 {
		return nil, fmt.Errorf("long stock window must be positive")
	}
	return &service{
		repo:           repo,
		locations:      locations,
		suppliers:      suppliers,
		tx:             tx,
		longStockAfter: longStockAfter,
	}, nil
}

func (s *service) EnsureSheet(ctx context.Context) error {
	return s.repo.EnsureSheet(ctx)
}

// Filter narrows item listings. Soft-deleted items are excluded unless
// the deleted status is requested explicitly.
type Filter struct {
	Statuses          []enums.ItemStatus
	StorageLocationID string
	SupplierID        string
	WoodType          string
	Query             string
}

func (f Filter) wantsDeleted() bool {
	for _, status := range f.Statuses {
		if status == enums.ItemStatusDeleted {
			return true
		}
	}
	return false
}

func (f Filter) matches(item models.Item) bool {
	if !f.wantsDeleted() && item.Status == enums.ItemStatusDeleted {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, status := range f.Statuses {
			if item.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.StorageLocationID != "" && item.StorageLocationID != f.StorageLocationID {
		return false
	}
	if f.SupplierID != "" && item.SupplierID != f.SupplierID {
		return false
	}
	if f.WoodType != "" && item.WoodType != f.WoodType {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(item.Name), q) &&
			!strings.Contains(strings.ToLower(item.ID), q) {
			return false
		}
	}
	return true
}

func (s *service) List(ctx context.Context, params pagination.Params, filter Filter) (*pagination.Result[models.Item], error) {
	return s.repo.FindWithPagination(ctx, params, filter.matches)
}

// Detail is an item enriched with master display names.
type Detail struct {
	models.Item
	SupplierName        string `json:"supplierName,omitempty"`
	StorageLocationName string `json:"storageLocationName,omitempty"`
}

func (s *service) Get(ctx context.Context, id string) (*Detail, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, itemNotFound(id)
	}
	detail := &Detail{Item: *item}
	if item.SupplierID != "" {
		supplier, err := s.suppliers.FindByID(ctx, item.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier != nil {
			detail.SupplierName = supplier.Name
		}
	}
	if item.StorageLocationID != "" {
		location, err := s.locations.FindByID(ctx, item.StorageLocationID)
		if err != nil {
			return nil, err
		}
		if location != nil {
			detail.StorageLocationName = location.Name
		}
	}
	return detail, nil
}

// CreateInput carries the fields settable at registration.
type CreateInput struct {
	MajorCategory     string     `json:"majorCategory" validate:"required"`
	MinorCategory     string     `json:"minorCategory"`
	Name              string     `json:"name" validate:"required"`
	WoodType          string     `json:"woodType" validate:"required"`
	RawLength         float64    `json:"rawLength"`
	RawWidth          float64    `json:"rawWidth"`
	RawThickness      float64    `json:"rawThickness"`
	FinishedLength    float64    `json:"finishedLength"`
	FinishedWidth     float64    `json:"finishedWidth"`
	FinishedThickness float64    `json:"finishedThickness"`
	RawPhotoURLs      string     `json:"rawPhotoUrls"`
	FinishedPhotoURLs string     `json:"finishedPhotoUrls"`
	SupplierID        string     `json:"supplierId" validate:"required"`
	PurchaseDate      *time.Time `json:"purchaseDate" validate:"required"`
	PurchasePrice     float64    `json:"purchasePrice" validate:"gte=0"`
	StorageLocationID string     `json:"storageLocationId" validate:"required"`
	ShippingCost      float64    `json:"shippingCost"`
	ProfitMargin      float64    `json:"profitMargin"`
	PriceAdjustment   float64    `json:"priceAdjustment"`
	Remarks           string     `json:"remarks"`
	ShippingCarrier   string     `json:"shippingCarrier"`
}

func (s *service) Create(ctx context.Context, input CreateInput, actor string) (*models.Item, error) {
	location, err := s.locations.FindByID(ctx, input.StorageLocationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, apperrors.New(apperrors.CodeValidation, "storage location does not exist").
			WithReason("LOCATION_NOT_FOUND").
			WithDetails(map[string]any{"storageLocationId": input.StorageLocationID})
	}
	supplier, err := s.suppliers.FindByID(ctx, input.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperrors.New(apperrors.CodeValidation, "supplier does not exist").
			WithDetails(map[string]any{"supplierId": input.SupplierID})
	}

	now := time.Now()
	var created models.Item
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		id, err := s.repo.NextIDInTx(ctx, tx)
		if err != nil {
			return err
		}
		created = models.Item{
			ID:                id,
			MajorCategory:     input.MajorCategory,
			MinorCategory:     input.MinorCategory,
			Name:              input.Name,
			WoodType:          input.WoodType,
			RawLength:         input.RawLength,
			RawWidth:          input.RawWidth,
			RawThickness:      input.RawThickness,
			FinishedLength:    input.FinishedLength,
			FinishedWidth:     input.FinishedWidth,
			FinishedThickness: input.FinishedThickness,
			RawPhotoURLs:      input.RawPhotoURLs,
			FinishedPhotoURLs: input.FinishedPhotoURLs,
			SupplierID:        input.SupplierID,
			PurchaseDate:      input.PurchaseDate,
			PurchasePrice:     input.PurchasePrice,
			StorageLocationID: input.StorageLocationID,
			ShippingCost:      input.ShippingCost,
			ProfitMargin:      input.ProfitMargin,
			PriceAdjustment:   input.PriceAdjustment,
			Status:            enums.ItemStatusAvailable,
			Remarks:           input.Remarks,
			ShippingCarrier:   input.ShippingCarrier,
			CreatedAt:         &now,
			CreatedBy:         actor,
		}
		return s.repo.CreateInTx(ctx, tx, created)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateInput carries the fields mutable after registration. Nil leaves
// the stored value untouched.
type UpdateInput struct {
	MajorCategory     *string  `json:"majorCategory,omitempty"`
	MinorCategory     *string  `json:"minorCategory,omitempty"`
	Name              *string  `json:"name,omitempty"`
	WoodType          *string  `json:"woodType,omitempty"`
	RawLength         *float64 `json:"rawLength,omitempty"`
	RawWidth          *float64 `json:"rawWidth,omitempty"`
	RawThickness      *float64 `json:"rawThickness,omitempty"`
	FinishedLength    *float64 `json:"finishedLength,omitempty"`
	FinishedWidth     *float64 `json:"finishedWidth,omitempty"`
	FinishedThickness *float64 `json:"finishedThickness,omitempty"`
	RawPhotoURLs      *string  `json:"rawPhotoUrls,omitempty"`
	FinishedPhotoURLs *string  `json:"finishedPhotoUrls,omitempty"`
	ShippingCost      *float64 `json:"shippingCost,omitempty"`
	ProfitMargin      *float64 `json:"profitMargin,omitempty"`
	PriceAdjustment   *float64 `json:"priceAdjustment,omitempty"`
	Remarks           *string  `json:"remarks,omitempty"`
	ShippingCarrier   *string  `json:"shippingCarrier,omitempty"`
	Negotiator        *string  `json:"negotiator,omitempty"`
	Department        *string  `json:"department,omitempty"`
}

func (s *service) Update(ctx context.Context, id string, input UpdateInput, actor string) (*models.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.Status == enums.ItemStatusDeleted {
		return nil, itemNotFound(id)
	}
	now := time.Now()
	return s.repo.Update(ctx, id, func(i *models.Item) {
		setString(&i.MajorCategory, input.MajorCategory)
		setString(&i.MinorCategory, input.MinorCategory)
		setString(&i.Name, input.Name)
		setString(&i.WoodType, input.WoodType)
		setFloat(&i.RawLength, input.RawLength)
		setFloat(&i.RawWidth, input.RawWidth)
		setFloat(&i.RawThickness, input.RawThickness)
		setFloat(&i.FinishedLength, input.FinishedLength)
		setFloat(&i.FinishedWidth, input.FinishedWidth)
		setFloat(&i.FinishedThickness, input.FinishedThickness)
		setString(&i.RawPhotoURLs, input.RawPhotoURLs)
		setString(&i.FinishedPhotoURLs, input.FinishedPhotoURLs)
		setFloat(&i.ShippingCost, input.ShippingCost)
		setFloat(&i.ProfitMargin, input.ProfitMargin)
		setFloat(&i.PriceAdjustment, input.PriceAdjustment)
		setString(&i.Remarks, input.Remarks)
		setString(&i.ShippingCarrier, input.ShippingCarrier)
		setString(&i.Negotiator, input.Negotiator)
		setString(&i.Department, input.Department)
		i.UpdatedAt = &now
		i.UpdatedBy = actor
	})
}

func (s *service) UpdateStatus(ctx context.Context, id string, status enums.ItemStatus, actor string) (*models.Item, error) {
	if !status.IsValid() {
		return nil, apperrors.New(apperrors.CodeValidation, "invalid item status").
			WithDetails(map[string]any{"status": status})
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, itemNotFound(id)
	}
	now := time.Now()
	return s.repo.Update(ctx, id, func(i *models.Item) {
		i.Status = status
		i.UpdatedAt = &now
		i.UpdatedBy = actor
	})
}

func (s *service) Relocate(ctx context.Context, id, locationID, actor string) (*models.Item, error) {
	location, err := s.locations.FindByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, apperrors.New(apperrors.CodeValidation, "storage location does not exist").
			WithReason("LOCATION_NOT_FOUND").
			WithDetails(map[string]any{"storageLocationId": locationID})
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.Status == enums.ItemStatusDeleted {
		return nil, itemNotFound(id)
	}
	now := time.Now()
	return s.repo.Update(ctx, id, func(i *models.Item) {
		i.StorageLocationID = locationID
		i.UpdatedAt = &now
		i.UpdatedBy = actor
	})
}

func (s *service) SoftDelete(ctx context.Context, id, reason, actor string) error {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return itemNotFound(id)
	}
	if item.Status == enums.ItemStatusDeleted {
		return apperrors.New(apperrors.CodeStateConflict, "item is already deleted").
			WithDetails(map[string]any{"itemId": id})
	}
	now := time.Now()
	_, err = s.repo.Update(ctx, id, func(i *models.Item) {
		i.Status = enums.ItemStatusDeleted
		i.DeletedAt = &now
		i.DeleteReason = reason
		i.UpdatedAt = &now
		i.UpdatedBy = actor
	})
	return err
}

func (s *service) Restore(ctx context.Context, id, actor string) (*models.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, itemNotFound(id)
	}
	if item.Status != enums.ItemStatusDeleted {
		return nil, apperrors.New(apperrors.CodeStateConflict, "item is not deleted").
			WithDetails(map[string]any{"itemId": id, "status": item.Status})
	}
	now := time.Now()
	return s.repo.Update(ctx, id, func(i *models.Item) {
		i.Status = enums.ItemStatusAvailable
		i.DeletedAt = nil
		i.DeleteReason = ""
		i.UpdatedAt = &now
		i.UpdatedBy = actor
	})
}

// ListLongStock returns unsold items held longer than the configured
// window, oldest first by purchase date.
func (s *service) ListLongStock(ctx context.Context, now time.Time) ([]models.Item, error) {
	cutoff := now.Add(-s.longStockAfter)
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	long := make([]models.Item, 0)
	for _, item := range all {
		if item.Status != enums.ItemStatusAvailable && item.Status != enums.ItemStatusNegotiating {
			continue
		}
		if item.PurchaseDate == nil || item.PurchaseDate.After(cutoff) {
			continue
		}
		long = append(long, item)
	}
	sort.SliceStable(long, func(i, j int) bool {
		return long[i].PurchaseDate.Before(*long[j].PurchaseDate)
	})
	return long, nil
}

func itemNotFound(id string) error {
	return apperrors.New(apperrors.CodeNotFound, "item not found").
		WithReason("PRODUCT_NOT_FOUND").
		WithDetails(map[string]any{"itemId": id})
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

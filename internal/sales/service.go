package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/slabworks/slabstock-backend/pkg/enums"
	apperrors "github.com/slabworks/slabstock-backend/pkg/errors"
	"github.com/slabworks/slabstock-backend/pkg/models"
)

type itemRepository interface {
	FindByID(ctx context.Context, id string) (*models.Item, error)
	FindByStatus(ctx context.Context, statuses ...enums.ItemStatus) ([]models.Item, error)
	Update(ctx context.Context, id string, apply func(*models.Item)) (*models.Item, error)
}

// Service records and cancels sales on stock items.
type Service interface {
	Sell(ctx context.Context, itemID string, input SellInput, actor string) (*models.Item, error)
	CancelSale(ctx context.Context, itemID, actor string) (*models.Item, error)
	ListSold(ctx context.Context, from, to *time.Time) ([]models.Item, error)
}

type service struct {
	items        itemRepository
	cancelWindow time.Duration
	now          func() time.Time
}

// NewService constructs the sales service. cancelWindow bounds how long
// after the sales date a sale can still be cancelled.
func NewService(items itemRepository, cancelWindow time.Duration) (Service, error) {
	if items == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if cancelWindow <= 0 {
		return nil, fmt.Errorf("cancel window must be positive")
	}
	return &service{items: items, cancelWindow: cancelWindow, now: time.Now}, nil
}

// SellInput carries the sale registration fields.
type SellInput struct {
	SalesDestination string     `json:"salesDestination" validate:"required"`
	SalesDate        *time.Time `json:"salesDate"`
	ActualSalesPrice float64    `json:"actualSalesPrice" validate:"gt=0"`
	SalesRemarks     string     `json:"salesRemarks"`
	DeliveryDate     *time.Time `json:"deliveryDate"`
}

func (s *service) Sell(ctx context.Context, itemID string, input SellInput, actor string) (*models.Item, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.Status == enums.ItemStatusDeleted {
		return nil, itemNotFound(itemID)
	}
	if item.Status != enums.ItemStatusAvailable && item.Status != enums.ItemStatusNegotiating {
		return nil, apperrors.New(apperrors.CodeStateConflict, "item cannot be sold from its current status").
			WithReason("PRODUCT_NOT_SELLABLE").
			WithDetails(map[string]any{"itemId": itemID, "status": item.Status})
	}

	salesDate := input.SalesDate
	if salesDate == nil {
		today := s.today()
		salesDate = &today
	}
	now := s.now()
	return s.items.Update(ctx, itemID, func(i *models.Item) {
		i.Status = enums.ItemStatusSold
		i.SalesDestination = input.SalesDestination
		i.SalesDate = salesDate
		i.ActualSalesPrice = input.ActualSalesPrice
		i.SalesRemarks = input.SalesRemarks
		if input.DeliveryDate != nil {
			i.DeliveryDate = input.DeliveryDate
		}
		i.UpdatedAt = &now
		i.UpdatedBy = actor
	})
}

func (s *service) CancelSale(ctx context.Context, itemID, actor string) (*models.Item, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, itemNotFound(itemID)
	}
	if item.Status != enums.ItemStatusSold {
		return nil, apperrors.New(apperrors.CodeStateConflict, "item is not sold").
			WithReason("PRODUCT_NOT_SOLD").
			WithDetails(map[string]any{"itemId": itemID, "status": item.Status})
	}
	if item.SalesDate != nil && s.now().Sub(*item.SalesDate) > s.cancelWindow {
		return nil, apperrors.New(apperrors.CodeStateConflict, "cancellation window has passed").
			WithReason("CANCEL_WINDOW_EXPIRED").
			WithDetails(map[string]any{"itemId": itemID, "salesDate": item.SalesDate})
	}

	now := s.now()
	return s.items.Update(ctx, itemID, func(i *models.Item) {
		i.Status = enums.ItemStatusAvailable
		i.SalesDestination = ""
		i.SalesDate = nil
		i.ActualSalesPrice = 0
		i.SalesRemarks = ""
		i.DeliveryDate = nil
		i.UpdatedAt = &now
		i.UpdatedBy = actor
	})
}

// ListSold returns sold items, newest sale first, optionally bounded by
// an inclusive sales date range.
func (s *service) ListSold(ctx context.Context, from, to *time.Time) ([]models.Item, error) {
	sold, err := s.items.FindByStatus(ctx, enums.ItemStatusSold)
	if err != nil {
		return nil, err
	}
	filtered := make([]models.Item, 0, len(sold))
	for _, item := range sold {
		if item.SalesDate == nil {
			continue
		}
		if from != nil && item.SalesDate.Before(*from) {
			continue
		}
		if to != nil && item.SalesDate.After(*to) {
			continue
		}
		filtered = append(filtered, item)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].SalesDate.After(*filtered[j].SalesDate)
	})
	return filtered, nil
}

func (s *service) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func itemNotFound(id string) error {
	return apperrors.New(apperrors.CodeNotFound, "item not found").
		WithReason("PRODUCT_NOT_FOUND").
		WithDetails(map[string]any{"itemId": id})
}

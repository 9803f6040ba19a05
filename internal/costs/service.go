package costs

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/slabworks/slabstock-backend/pkg/enums"
	apperrors "github.com/slabworks/slabstock-backend/pkg/errors"
	"github.com/slabworks/slabstock-backend/pkg/models"
)

type costRepository interface {
	EnsureSheet(ctx context.Context) error
	FindByID(ctx context.Context, id string) (*models.ProcessingCost, error)
	FindByItemID(ctx context.Context, itemID string) ([]models.ProcessingCost, error)
	CreateInTx(ctx context.Context, tx *gorm.DB, cost models.ProcessingCost) error
	Update(ctx context.Context, id string, apply func(*models.ProcessingCost)) (*models.ProcessingCost, error)
	Delete(ctx context.Context, id string) error
	NextIDInTx(ctx context.Context, tx *gorm.DB) (string, error)
}

type itemReader interface {
	FindByID(ctx context.Context, id string) (*models.Item, error)
}

type processorReader interface {
	FindByID(ctx context.Context, id string) (*models.Processor, error)
}

type transactor interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes processing cost bookkeeping.
type Service interface {
	EnsureSheet(ctx context.Context) error
	SummaryForItem(ctx context.Context, itemID string) (*Summary, error)
	Create(ctx context.Context, input CreateInput) (*models.ProcessingCost, error)
	Update(ctx context.Context, id string, input UpdateInput) (*models.ProcessingCost, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo       costRepository
	items      itemReader
	processors processorReader
	tx         transactor
}

// NewService constructs the processing cost service.
func NewService(repo costRepository, items itemReader, processors processorReader, tx transactor) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cost repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if processors == nil {
		return nil, fmt.Errorf("processor repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transactor required")
	}
	return &service{repo: repo, items: items, processors: processors, tx: tx}, nil
}

func (s *service) EnsureSheet(ctx context.Context) error {
	return s.repo.EnsureSheet(ctx)
}

// Line is one cost entry enriched with the processor's display name.
type Line struct {
	models.ProcessingCost
	ProcessorName string `json:"processorName,omitempty"`
}

// Summary aggregates every cost booked against one item.
type Summary struct {
	ItemID      string  `json:"itemId"`
	TotalAmount float64 `json:"totalAmount"`
	ItemCount   int     `json:"itemCount"`
	Lines       []Line  `json:"lines"`
}

func (s *service) SummaryForItem(ctx context.Context, itemID string) (*Summary, error) {
	found, err := s.repo.FindByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	summary := &Summary{ItemID: itemID, ItemCount: len(found), Lines: make([]Line, 0, len(found))}
	names := map[string]string{}
	for _, cost := range found {
		summary.TotalAmount += cost.Amount
		line := Line{ProcessingCost: cost}
		if cost.ProcessorID != "" {
			name, ok := names[cost.ProcessorID]
			if !ok {
				processor, err := s.processors.FindByID(ctx, cost.ProcessorID)
				if err != nil {
					return nil, err
				}
				if processor != nil {
					name = processor.Name
				}
				names[cost.ProcessorID] = name
			}
			line.ProcessorName = name
		}
		summary.Lines = append(summary.Lines, line)
	}
	return summary, nil
}

// CreateInput carries a new cost booking.
type CreateInput struct {
	ItemID         string  `json:"itemId" validate:"required"`
	ProcessingType string  `json:"processingType" validate:"required"`
	ProcessorID    string  `json:"processorId" validate:"required"`
	Content        string  `json:"content"`
	Amount         float64 `json:"amount" validate:"gt=0"`
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.ProcessingCost, error) {
	processingType, err := enums.ParseProcessingType(input.ProcessingType)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "invalid processing type").
			WithDetails(map[string]any{"processingType": input.ProcessingType})
	}
	item, err := s.items.FindByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.Status == enums.ItemStatusDeleted {
		return nil, apperrors.New(apperrors.CodeValidation, "item does not exist").
			WithReason("PRODUCT_NOT_FOUND").
			WithDetails(map[string]any{"itemId": input.ItemID})
	}
	processor, err := s.processors.FindByID(ctx, input.ProcessorID)
	if err != nil {
		return nil, err
	}
	if processor == nil {
		return nil, apperrors.New(apperrors.CodeValidation, "processor does not exist").
			WithDetails(map[string]any{"processorId": input.ProcessorID})
	}

	now := time.Now()
	var created models.ProcessingCost
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		id, err := s.repo.NextIDInTx(ctx, tx)
		if err != nil {
			return err
		}
		created = models.ProcessingCost{
			ID:          id,
			ItemID:      input.ItemID,
			Type:        processingType,
			ProcessorID: input.ProcessorID,
			Content:     input.Content,
			Amount:      input.Amount,
			CreatedAt:   &now,
		}
		return s.repo.CreateInTx(ctx, tx, created)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateInput mutates an existing booking. Nil leaves the stored value
// untouched.
type UpdateInput struct {
	ProcessingType *string  `json:"processingType,omitempty"`
	ProcessorID    *string  `json:"processorId,omitempty"`
	Content        *string  `json:"content,omitempty"`
	Amount         *float64 `json:"amount,omitempty"`
}

func (s *service) Update(ctx context.Context, id string, input UpdateInput) (*models.ProcessingCost, error) {
	var processingType *enums.ProcessingType
	if input.ProcessingType != nil {
		parsed, err := enums.ParseProcessingType(*input.ProcessingType)
		if err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, "invalid processing type").
				WithDetails(map[string]any{"processingType": *input.ProcessingType})
		}
		processingType = &parsed
	}
	if input.ProcessorID != nil {
		processor, err := s.processors.FindByID(ctx, *input.ProcessorID)
		if err != nil {
			return nil, err
		}
		if processor == nil {
			return nil, apperrors.New(apperrors.CodeValidation, "processor does not exist").
				WithDetails(map[string]any{"processorId": *input.ProcessorID})
		}
	}
	if input.Amount != nil && *input.Amount <= 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "amount must be positive")
	}
	return s.repo.Update(ctx, id, func(cost *models.ProcessingCost) {
		if processingType != nil {
			cost.Type = *processingType
		}
		if input.ProcessorID != nil {
			cost.ProcessorID = *input.ProcessorID
		}
		if input.Content != nil {
			cost.Content = *input.Content
		}
		if input.Amount != nil {
			cost.Amount = *input.Amount
		}
	})
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

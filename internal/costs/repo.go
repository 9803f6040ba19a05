package costs

import (
	"context"

	"gorm.io/gorm"

	"github.com/slabworks/slabstock-backend/pkg/ids"
	"github.com/slabworks/slabstock-backend/pkg/models"
	"github.com/slabworks/slabstock-backend/pkg/sheet"
)

// Repository persists processing cost records.
type Repository struct {
	table *sheet.Table[models.ProcessingCost]
}

// NewRepository constructs a processing cost repository over the given
// store.
func NewRepository(store *sheet.Store) (*Repository, error) {
	table, err := sheet.NewTable[models.ProcessingCost](store, models.ProcessingCostCodec{})
	if err != nil {
		return nil, err
	}
	return &Repository{table: table}, nil
}

// WithTx returns a repository bound to the given transaction. A nil tx
// returns the receiver unchanged.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{table: r.table.WithTx(tx)}
}

func (r *Repository) EnsureSheet(ctx context.Context) error {
	return r.table.EnsureSheet(ctx)
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.ProcessingCost, error) {
	return r.table.FindByID(ctx, id)
}

// FindByItemID returns every cost booked against the item, in entry
// order.
func (r *Repository) FindByItemID(ctx context.Context, itemID string) ([]models.ProcessingCost, error) {
	return r.table.FindWhere(ctx, func(cost models.ProcessingCost) bool {
		return cost.ItemID == itemID
	})
}

// TotalForItem sums the amounts booked against the item.
func (r *Repository) TotalForItem(ctx context.Context, itemID string) (float64, error) {
	found, err := r.FindByItemID(ctx, itemID)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, cost := range found {
		total += cost.Amount
	}
	return total, nil
}

// CreateInTx appends a cost record inside the given transaction.
func (r *Repository) CreateInTx(ctx context.Context, tx *gorm.DB, cost models.ProcessingCost) error {
	return r.WithTx(tx).table.Create(ctx, cost)
}

func (r *Repository) Update(ctx context.Context, id string, apply func(*models.ProcessingCost)) (*models.ProcessingCost, error) {
	return r.table.Update(ctx, id, apply)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.table.Delete(ctx, id)
}

// NextIDInTx allocates the next cost identifier inside the given
// transaction.
func (r *Repository) NextIDInTx(ctx context.Context, tx *gorm.DB) (string, error) {
	all, err := r.WithTx(tx).table.FindAll(ctx)
	if err != nil {
		return "", err
	}
	existing := make([]string, 0, len(all))
	for _, cost := range all {
		existing = append(existing, cost.ID)
	}
	return ids.CostID(ids.NextSequence(existing, ids.CostPrefix)), nil
}

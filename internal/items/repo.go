package items

import (
	"context"

	"gorm.io/gorm"

	"github.com/slabworks/slabstock-backend/pkg/enums"
	"github.com/slabworks/slabstock-backend/pkg/ids"
	"github.com/slabworks/slabstock-backend/pkg/models"
	"github.com/slabworks/slabstock-backend/pkg/pagination"
	"github.com/slabworks/slabstock-backend/pkg/sheet"
)

// Repository persists stock items on the items sheet.
type Repository struct {
	table *sheet.Table[models.Item]
}

// NewRepository constructs an item repository over the given store.
func NewRepository(store *sheet.Store) (*Repository, error) {
	table, err := sheet.NewTable[models.Item](store, models.ItemCodec{})
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

// CreateInTx appends an item inside the given transaction.
func (r *Repository) CreateInTx(ctx context.Context, tx *gorm.DB, item models.Item) error {
	return r.WithTx(tx).Create(ctx, item)
}

// UpdateInTx rewrites an item inside the given transaction.
func (r *Repository) UpdateInTx(ctx context.Context, tx *gorm.DB, id string, apply func(*models.Item)) (*models.Item, error) {
	return r.WithTx(tx).Update(ctx, id, apply)
}

// NextIDInTx allocates the next item identifier inside the given
// transaction so allocation and insert cannot race.
func (r *Repository) NextIDInTx(ctx context.Context, tx *gorm.DB) (string, error) {
	return r.WithTx(tx).NextID(ctx)
}

func (r *Repository) EnsureSheet(ctx context.Context) error {
	return r.table.EnsureSheet(ctx)
}

func (r *Repository) FindAll(ctx context.Context) ([]models.Item, error) {
	return r.table.FindAll(ctx)
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.Item, error) {
	return r.table.FindByID(ctx, id)
}

func (r *Repository) FindByIDs(ctx context.Context, itemIDs []string) ([]models.Item, error) {
	return r.table.FindByIDs(ctx, itemIDs)
}

// FindByLocationAndStatus returns items at the location carrying one of
// the given statuses.
func (r *Repository) FindByLocationAndStatus(ctx context.Context, locationID string, statuses ...enums.ItemStatus) ([]models.Item, error) {
	return r.table.FindWhere(ctx, func(item models.Item) bool {
		if item.StorageLocationID != locationID {
			return false
		}
		for _, status := range statuses {
			if item.Status == status {
				return true
			}
		}
		return false
	})
}

// FindByStatus returns every item carrying one of the given statuses.
func (r *Repository) FindByStatus(ctx context.Context, statuses ...enums.ItemStatus) ([]models.Item, error) {
	return r.table.FindWhere(ctx, func(item models.Item) bool {
		for _, status := range statuses {
			if item.Status == status {
				return true
			}
		}
		return false
	})
}

func (r *Repository) FindWithPagination(ctx context.Context, params pagination.Params, pred func(models.Item) bool) (*pagination.Result[models.Item], error) {
	return r.table.FindWithPagination(ctx, params, pred)
}

func (r *Repository) Create(ctx context.Context, item models.Item) error {
	return r.table.Create(ctx, item)
}

func (r *Repository) Update(ctx context.Context, id string, apply func(*models.Item)) (*models.Item, error) {
	return r.table.Update(ctx, id, apply)
}

// NextID allocates the next item identifier from the IDs already on the
// sheet. Callers needing allocation and insert to be atomic run both
// through WithTx.
func (r *Repository) NextID(ctx context.Context) (string, error) {
	all, err := r.table.FindAll(ctx)
	if err != nil {
		return "", err
	}
	existing := make([]string, 0, len(all))
	for _, item := range all {
		existing = append(existing, item.ID)
	}
	return ids.ItemID(ids.NextSequence(existing, ids.ItemPrefix)), nil
}

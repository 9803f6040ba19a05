package sheet

import (
	"context"

	"gorm.io/gorm"

	apperrors "github.com/slabworks/slabstock-backend/pkg/errors"
	"github.com/slabworks/slabstock-backend/pkg/pagination"
)

// Table is a typed view over one sheet. All lookups decode the full
// sheet and filter in memory, matching the row counts this system is
// built for.
type Table[T any] struct {
	store *Store
	codec Codec[T]
}

// NewTable binds a codec to a store.
func NewTable[T any](store *Store, codec Codec[T]) (*Table[T], error) {
	if store == nil {
		return nil, apperrors.New(apperrors.CodeInternal, "table requires a store")
	}
	if codec == nil {
		return nil, apperrors.New(apperrors.CodeInternal, "table requires a codec")
	}
	return &Table[T]{store: store, codec: codec}, nil
}

// WithTx returns a Table bound to the given transaction.
func (t *Table[T]) WithTx(tx *gorm.DB) *Table[T] {
	return &Table[T]{store: t.store.WithTx(tx), codec: t.codec}
}

// EnsureSheet creates the backing sheet with its header when absent.
func (t *Table[T]) EnsureSheet(ctx context.Context) error {
	return t.store.EnsureSheet(ctx, t.codec.Sheet(), t.codec.Header())
}

// FindAll returns every entity in insertion order.
func (t *Table[T]) FindAll(ctx context.Context) ([]T, error) {
	rows, err := t.store.DataRows(ctx, t.codec.Sheet())
	if err != nil {
		return nil, err
	}
	entities := make([]T, 0, len(rows))
	for _, row := range rows {
		entity, err := t.codec.Decode(row.Cells)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// FindByID returns the entity with the given identifier, or nil when
// absent.
func (t *Table[T]) FindByID(ctx context.Context, id string) (*T, error) {
	entity, _, err := t.findRow(ctx, id)
	return entity, err
}

// FindByIDs returns the entities whose identifiers appear in ids,
// preserving sheet order. Unknown identifiers are skipped.
func (t *Table[T]) FindByIDs(ctx context.Context, ids []string) ([]T, error) {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	return t.FindWhere(ctx, func(entity T) bool {
		_, ok := wanted[t.codec.ID(entity)]
		return ok
	})
}

// Create appends one entity.
func (t *Table[T]) Create(ctx context.Context, entity T) error {
	return t.store.AppendRows(ctx, t.codec.Sheet(), [][]string{t.codec.Encode(entity)})
}

// CreateMany appends entities in the given order.
func (t *Table[T]) CreateMany(ctx context.Context, entities []T) error {
	rows := make([][]string, 0, len(entities))
	for _, entity := range entities {
		rows = append(rows, t.codec.Encode(entity))
	}
	return t.store.AppendRows(ctx, t.codec.Sheet(), rows)
}

// Update loads the entity, applies the mutation, and rewrites its row in
// place.
func (t *Table[T]) Update(ctx context.Context, id string, apply func(*T)) (*T, error) {
	entity, pos, err := t.findRow(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "record not found").
			WithDetails(map[string]any{"id": id, "sheet": t.codec.Sheet()})
	}
	apply(entity)
	if err := t.store.OverwriteRow(ctx, t.codec.Sheet(), pos, t.codec.Encode(*entity)); err != nil {
		return nil, err
	}
	return entity, nil
}

// Delete removes the entity's row.
func (t *Table[T]) Delete(ctx context.Context, id string) error {
	entity, pos, err := t.findRow(ctx, id)
	if err != nil {
		return err
	}
	if entity == nil {
		return apperrors.New(apperrors.CodeNotFound, "record not found").
			WithDetails(map[string]any{"id": id, "sheet": t.codec.Sheet()})
	}
	return t.store.DeleteRow(ctx, t.codec.Sheet(), pos)
}

// Count returns the number of entities.
func (t *Table[T]) Count(ctx context.Context) (int, error) {
	rows, err := t.store.DataRows(ctx, t.codec.Sheet())
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Exists reports whether an entity with the given identifier is present.
func (t *Table[T]) Exists(ctx context.Context, id string) (bool, error) {
	entity, _, err := t.findRow(ctx, id)
	if err != nil {
		return false, err
	}
	return entity != nil, nil
}

// FindWhere returns entities matching the predicate in insertion order.
func (t *Table[T]) FindWhere(ctx context.Context, pred func(T) bool) ([]T, error) {
	all, err := t.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]T, 0, len(all))
	for _, entity := range all {
		if pred(entity) {
			matched = append(matched, entity)
		}
	}
	return matched, nil
}

// FindWithPagination filters with pred (nil matches everything) and
// returns the requested page.
func (t *Table[T]) FindWithPagination(ctx context.Context, params pagination.Params, pred func(T) bool) (*pagination.Result[T], error) {
	var (
		matched []T
		err     error
	)
	if pred == nil {
		matched, err = t.FindAll(ctx)
	} else {
		matched, err = t.FindWhere(ctx, pred)
	}
	if err != nil {
		return nil, err
	}
	result := pagination.Paginate(matched, params)
	return &result, nil
}

func (t *Table[T]) findRow(ctx context.Context, id string) (*T, int64, error) {
	rows, err := t.store.DataRows(ctx, t.codec.Sheet())
	if err != nil {
		return nil, 0, err
	}
	for _, row := range rows {
		entity, err := t.codec.Decode(row.Cells)
		if err != nil {
			return nil, 0, err
		}
		if t.codec.ID(entity) == id {
			return &entity, row.Pos, nil
		}
	}
	return nil, 0, nil
}

package masters

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/slabworks/slabstock-backend/pkg/ids"
	"github.com/slabworks/slabstock-backend/pkg/models"
	"github.com/slabworks/slabstock-backend/pkg/sheet"
)

// WoodTypeRepository persists the wood type master.
type WoodTypeRepository struct {
	table *sheet.Table[models.WoodType]
}

func NewWoodTypeRepository(store *sheet.Store) (*WoodTypeRepository, error) {
	table, err := sheet.NewTable[models.WoodType](store, models.WoodTypeCodec{})
	if err != nil {
		return nil, err
	}
	return &WoodTypeRepository{table: table}, nil
}

func (r *WoodTypeRepository) EnsureSheet(ctx context.Context) error {
	return r.table.EnsureSheet(ctx)
}

// FindAll returns wood types ordered by display order.
func (r *WoodTypeRepository) FindAll(ctx context.Context) ([]models.WoodType, error) {
	all, err := r.table.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].DisplayOrder < all[j].DisplayOrder
	})
	return all, nil
}

func (r *WoodTypeRepository) FindByID(ctx context.Context, id string) (*models.WoodType, error) {
	return r.table.FindByID(ctx, id)
}

func (r *WoodTypeRepository) Create(ctx context.Context, woodType models.WoodType) error {
	return r.table.Create(ctx, woodType)
}

func (r *WoodTypeRepository) Update(ctx context.Context, id string, apply func(*models.WoodType)) (*models.WoodType, error) {
	return r.table.Update(ctx, id, apply)
}

func (r *WoodTypeRepository) Delete(ctx context.Context, id string) error {
	return r.table.Delete(ctx, id)
}

// NextID allocates the next wood type identifier.
func (r *WoodTypeRepository) NextID(ctx context.Context) (string, error) {
	all, err := r.table.FindAll(ctx)
	if err != nil {
		return "", err
	}
	existing := make([]string, 0, len(all))
	for _, w := range all {
		existing = append(existing, w.ID)
	}
	return ids.WoodTypeID(ids.NextSequence(existing, ids.WoodTypePrefix)), nil
}

// SupplierRepository persists the supplier master.
type SupplierRepository struct {
	table *sheet.Table[models.Supplier]
}

func NewSupplierRepository(store *sheet.Store) (*SupplierRepository, error) {
	table, err := sheet.NewTable[models.Supplier](store, models.SupplierCodec{})
	if err != nil {
		return nil, err
	}
	return &SupplierRepository{table: table}, nil
}

func (r *SupplierRepository) EnsureSheet(ctx context.Context) error {
	return r.table.EnsureSheet(ctx)
}

func (r *SupplierRepository) FindAll(ctx context.Context) ([]models.Supplier, error) {
	return r.table.FindAll(ctx)
}

func (r *SupplierRepository) FindByID(ctx context.Context, id string) (*models.Supplier, error) {
	return r.table.FindByID(ctx, id)
}

func (r *SupplierRepository) Create(ctx context.Context, supplier models.Supplier) error {
	return r.table.Create(ctx, supplier)
}

func (r *SupplierRepository) Update(ctx context.Context, id string, apply func(*models.Supplier)) (*models.Supplier, error) {
	return r.table.Update(ctx, id, apply)
}

func (r *SupplierRepository) Delete(ctx context.Context, id string) error {
	return r.table.Delete(ctx, id)
}

func (r *SupplierRepository) NextID(ctx context.Context) (string, error) {
	all, err := r.table.FindAll(ctx)
	if err != nil {
		return "", err
	}
	existing := make([]string, 0, len(all))
	for _, s := range all {
		existing = append(existing, s.ID)
	}
	return ids.SupplierID(ids.NextSequence(existing, ids.SupplierPrefix)), nil
}

// ProcessorRepository persists the processor master.
type ProcessorRepository struct {
	table *sheet.Table[models.Processor]
}

func NewProcessorRepository(store *sheet.Store) (*ProcessorRepository, error) {
	table, err := sheet.NewTable[models.Processor](store, models.ProcessorCodec{})
	if err != nil {
		return nil, err
	}
	return &ProcessorRepository{table: table}, nil
}

func (r *ProcessorRepository) EnsureSheet(ctx context.Context) error {
	return r.table.EnsureSheet(ctx)
}

func (r *ProcessorRepository) FindAll(ctx context.Context) ([]models.Processor, error) {
	return r.table.FindAll(ctx)
}

func (r *ProcessorRepository) FindByID(ctx context.Context, id string) (*models.Processor, error) {
	return r.table.FindByID(ctx, id)
}

func (r *ProcessorRepository) Create(ctx context.Context, processor models.Processor) error {
	return r.table.Create(ctx, processor)
}

func (r *ProcessorRepository) Update(ctx context.Context, id string, apply func(*models.Processor)) (*models.Processor, error) {
	return r.table.Update(ctx, id, apply)
}

func (r *ProcessorRepository) Delete(ctx context.Context, id string) error {
	return r.table.Delete(ctx, id)
}

func (r *ProcessorRepository) NextID(ctx context.Context) (string, error) {
	all, err := r.table.FindAll(ctx)
	if err != nil {
		return "", err
	}
	existing := make([]string, 0, len(all))
	for _, p := range all {
		existing = append(existing, p.ID)
	}
	return ids.ProcessorID(ids.NextSequence(existing, ids.ProcessorPrefix)), nil
}

// LocationRepository persists the storage location master.
type LocationRepository struct {
	table *sheet.Table[models.StorageLocation]
}

func NewLocationRepository(store *sheet.Store) (*LocationRepository, error) {
	table, err := sheet.NewTable[models.StorageLocation](store, models.StorageLocationCodec{})
	if err != nil {
		return nil, err
	}
	return &LocationRepository{table: table}, nil
}

// WithTx returns a repository bound to the given transaction. A nil tx
// returns the receiver unchanged.
func (r *LocationRepository) WithTx(tx *gorm.DB) *LocationRepository {
	if tx == nil {
		return r
	}
	return &LocationRepository{table: r.table.WithTx(tx)}
}

// UpdateInTx rewrites a location inside the given transaction.
func (r *LocationRepository) UpdateInTx(ctx context.Context, tx *gorm.DB, id string, apply func(*models.StorageLocation)) (*models.StorageLocation, error) {
	return r.WithTx(tx).Update(ctx, id, apply)
}

func (r *LocationRepository) EnsureSheet(ctx context.Context) error {
	return r.table.EnsureSheet(ctx)
}

// FindAll returns locations ordered by display order.
func (r *LocationRepository) FindAll(ctx context.Context) ([]models.StorageLocation, error) {
	all, err := r.table.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].DisplayOrder < all[j].DisplayOrder
	})
	return all, nil
}

func (r *LocationRepository) FindByID(ctx context.Context, id string) (*models.StorageLocation, error) {
	return r.table.FindByID(ctx, id)
}

func (r *LocationRepository) Create(ctx context.Context, location models.StorageLocation) error {
	return r.table.Create(ctx, location)
}

func (r *LocationRepository) Update(ctx context.Context, id string, apply func(*models.StorageLocation)) (*models.StorageLocation, error) {
	return r.table.Update(ctx, id, apply)
}

func (r *LocationRepository) Delete(ctx context.Context, id string) error {
	return r.table.Delete(ctx, id)
}

func (r *LocationRepository) NextID(ctx context.Context) (string, error) {
	all, err := r.table.FindAll(ctx)
	if err != nil {
		return "", err
	}
	existing := make([]string, 0, len(all))
	for _, l := range all {
		existing = append(existing, l.ID)
	}
	return ids.LocationID(ids.NextSequence(existing, ids.LocationPrefix)), nil
}

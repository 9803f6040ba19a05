package sheet

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	apperrors "github.com/slabworks/slabstock-backend/pkg/errors"
)

// Header rows live at position zero; data rows start at one and keep
// their insertion order.
const headerPos = 0

type rowRecord struct {
	Sheet string `gorm:"column:sheet;primaryKey"`
	Pos   int64  `gorm:"column:pos;primaryKey"`
	Cells string `gorm:"column:cells;not null"`
}

func (rowRecord) TableName() string {
	return "sheet_rows"
}

// Row is one data row of a sheet together with its stable position.
type Row struct {
	Pos   int64
	Cells []string
}

// Store persists named sheets of string cells. Each sheet behaves like a
// spreadsheet tab: a header row followed by append-ordered data rows.
type Store struct {
	db *gorm.DB
}

// NewStore returns a Store backed by the given database handle.
func NewStore(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, apperrors.New(apperrors.CodeInternal, "sheet store requires a database handle")
	}
	return &Store{db: db}, nil
}

// WithTx returns a Store bound to the given transaction.
func (s *Store) WithTx(tx *gorm.DB) *Store {
	return &Store{db: tx}
}

// EnsureSheet creates the header row for sheet if it does not exist yet.
func (s *Store) EnsureSheet(ctx context.Context, sheet string, header []string) error {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&rowRecord{}).
		Where("sheet = ? AND pos = ?", sheet, headerPos).
		Count(&count).Error
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "failed to inspect sheet header")
	}
	if count > 0 {
		return nil
	}
	cells, err := encodeCells(header)
	if err != nil {
		return err
	}
	record := rowRecord{Sheet: sheet, Pos: headerPos, Cells: cells}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "failed to create sheet header")
	}
	return nil
}

// Header returns the header row of sheet, or nil when the sheet does not
// exist.
func (s *Store) Header(ctx context.Context, sheet string) ([]string, error) {
	var record rowRecord
	err := s.db.WithContext(ctx).
		Where("sheet = ? AND pos = ?", sheet, headerPos).
		First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to read sheet header")
	}
	return decodeCells(record.Cells)
}

// DataRows returns every data row of sheet in position order.
func (s *Store) DataRows(ctx context.Context, sheet string) ([]Row, error) {
	var records []rowRecord
	err := s.db.WithContext(ctx).
		Where("sheet = ? AND pos > ?", sheet, headerPos).
		Order("pos ASC").
		Find(&records).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to read sheet rows")
	}
	rows := make([]Row, 0, len(records))
	for _, record := range records {
		cells, err := decodeCells(record.Cells)
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{Pos: record.Pos, Cells: cells})
	}
	return rows, nil
}

// AppendRows adds rows to the end of sheet, preserving their order.
func (s *Store) AppendRows(ctx context.Context, sheet string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	next, err := s.nextPos(ctx, sheet)
	if err != nil {
		return err
	}
	records := make([]rowRecord, 0, len(rows))
	for i, cells := range rows {
		encoded, err := encodeCells(cells)
		if err != nil {
			return err
		}
		records = append(records, rowRecord{Sheet: sheet, Pos: next + int64(i), Cells: encoded})
	}
	if err := s.db.WithContext(ctx).Create(&records).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "failed to append sheet rows")
	}
	return nil
}

// OverwriteRow replaces the cells of the row at pos.
func (s *Store) OverwriteRow(ctx context.Context, sheet string, pos int64, cells []string) error {
	encoded, err := encodeCells(cells)
	if err != nil {
		return err
	}
	result := s.db.WithContext(ctx).
		Model(&rowRecord{}).
		Where("sheet = ? AND pos = ?", sheet, pos).
		Update("cells", encoded)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.CodeInternal, result.Error, "failed to overwrite sheet row")
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.CodeNotFound, "sheet row not found")
	}
	return nil
}

// DeleteRow removes the row at pos. Positions of later rows are kept so
// concurrent readers never see rows shift underneath them.
func (s *Store) DeleteRow(ctx context.Context, sheet string, pos int64) error {
	result := s.db.WithContext(ctx).
		Where("sheet = ? AND pos = ?", sheet, pos).
		Delete(&rowRecord{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.CodeInternal, result.Error, "failed to delete sheet row")
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.CodeNotFound, "sheet row not found")
	}
	return nil
}

func (s *Store) nextPos(ctx context.Context, sheet string) (int64, error) {
	var max *int64
	err := s.db.WithContext(ctx).
		Model(&rowRecord{}).
		Where("sheet = ?", sheet).
		Select("MAX(pos)").
		Scan(&max).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeInternal, err, "failed to compute next sheet position")
	}
	if max == nil {
		return headerPos + 1, nil
	}
	return *max + 1, nil
}

func encodeCells(cells []string) (string, error) {
	if cells == nil {
		cells = []string{}
	}
	raw, err := json.Marshal(cells)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeInternal, err, "failed to encode sheet cells")
	}
	return string(raw), nil
}

func decodeCells(raw string) ([]string, error) {
	var cells []string
	if err := json.Unmarshal([]byte(raw), &cells); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to decode sheet cells")
	}
	return cells, nil
}

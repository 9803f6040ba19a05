package models

import (
	"time"

	"github.com/slabworks/slabstock-backend/pkg/enums"
	"github.com/slabworks/slabstock-backend/pkg/sheet"
)

// SheetProcessingCosts is the sheet holding per-item processing costs.
const SheetProcessingCosts = "processing_costs"

// ProcessingCost is one unit of outsourced work billed against an item.
type ProcessingCost struct {
	ID          string               `json:"processingCostId"`
	ItemID      string               `json:"itemId"`
	Type        enums.ProcessingType `json:"processingType"`
	ProcessorID string               `json:"processorId"`
	Content     string               `json:"content,omitempty"`
	Amount      float64              `json:"amount"`
	CreatedAt   *time.Time           `json:"createdAt,omitempty"`
}

const (
	costColID = iota
	costColItemID
	costColType
	costColProcessorID
	costColContent
	costColAmount
	costColCreatedAt

	costColCount
)

type ProcessingCostCodec struct{}

func (ProcessingCostCodec) Sheet() string {
	return SheetProcessingCosts
}

func (ProcessingCostCodec) Header() []string {
	return []string{"processing_cost_id", "item_id", "processing_type", "processor_id", "content", "amount", "created_at"}
}

func (ProcessingCostCodec) ID(c ProcessingCost) string {
	return c.ID
}

func (ProcessingCostCodec) Encode(c ProcessingCost) []string {
	cells := make([]string, costColCount)
	cells[costColID] = c.ID
	cells[costColItemID] = c.ItemID
	cells[costColType] = c.Type.String()
	cells[costColProcessorID] = c.ProcessorID
	cells[costColContent] = c.Content
	cells[costColAmount] = sheet.FormatFloat(c.Amount)
	cells[costColCreatedAt] = sheet.FormatTime(c.CreatedAt)
	return cells
}

func (ProcessingCostCodec) Decode(cells []string) (ProcessingCost, error) {
	return ProcessingCost{
		ID:          sheet.Cell(cells, costColID),
		ItemID:      sheet.Cell(cells, costColItemID),
		Type:        enums.ProcessingType(sheet.Cell(cells, costColType)),
		ProcessorID: sheet.Cell(cells, costColProcessorID),
		Content:     sheet.Cell(cells, costColContent),
		Amount:      sheet.CellFloat(cells, costColAmount),
		CreatedAt:   sheet.CellTime(cells, costColCreatedAt),
	}, nil
}

package models

import (
	"strings"
	"time"

	"github.com/slabworks/slabstock-backend/pkg/enums"
	"github.com/slabworks/slabstock-backend/pkg/sheet"
)

// Sheet names for the master data tabs.
const (
	SheetWoodTypes        = "wood_types"
	SheetSuppliers        = "suppliers"
	SheetProcessors       = "processors"
	SheetStorageLocations = "storage_locations"
)

// WoodType is a species of timber offered for sale.
type WoodType struct {
	ID           string `json:"woodTypeId"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"displayOrder"`
}

const (
	woodTypeColID = iota
	woodTypeColName
	woodTypeColDisplayOrder

	woodTypeColCount
)

type WoodTypeCodec struct{}

func (WoodTypeCodec) Sheet() string {
	return SheetWoodTypes
}

func (WoodTypeCodec) Header() []string {
	return []string{"wood_type_id", "name", "display_order"}
}

func (WoodTypeCodec) ID(w WoodType) string {
	return w.ID
}

func (WoodTypeCodec) Encode(w WoodType) []string {
	cells := make([]string, woodTypeColCount)
	cells[woodTypeColID] = w.ID
	cells[woodTypeColName] = w.Name
	cells[woodTypeColDisplayOrder] = sheet.FormatInt(w.DisplayOrder)
	return cells
}

func (WoodTypeCodec) Decode(cells []string) (WoodType, error) {
	return WoodType{
		ID:           sheet.Cell(cells, woodTypeColID),
		Name:         sheet.Cell(cells, woodTypeColName),
		DisplayOrder: sheet.CellInt(cells, woodTypeColDisplayOrder),
	}, nil
}

// Supplier is a vendor slabs are purchased from.
type Supplier struct {
	ID      string `json:"supplierId"`
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
	Address string `json:"address,omitempty"`
	Remarks string `json:"remarks,omitempty"`
}

const (
	supplierColID = iota
	supplierColName
	supplierColContact
	supplierColAddress
	supplierColRemarks

	supplierColCount
)

type SupplierCodec struct{}

func (SupplierCodec) Sheet() string {
	return SheetSuppliers
}

func (SupplierCodec) Header() []string {
	return []string{"supplier_id", "name", "contact", "address", "remarks"}
}

func (SupplierCodec) ID(s Supplier) string {
	return s.ID
}

func (SupplierCodec) Encode(s Supplier) []string {
	cells := make([]string, supplierColCount)
	cells[supplierColID] = s.ID
	cells[supplierColName] = s.Name
	cells[supplierColContact] = s.Contact
	cells[supplierColAddress] = s.Address
	cells[supplierColRemarks] = s.Remarks
	return cells
}

func (SupplierCodec) Decode(cells []string) (Supplier, error) {
	return Supplier{
		ID:      sheet.Cell(cells, supplierColID),
		Name:    sheet.Cell(cells, supplierColName),
		Contact: sheet.Cell(cells, supplierColContact),
		Address: sheet.Cell(cells, supplierColAddress),
		Remarks: sheet.Cell(cells, supplierColRemarks),
	}, nil
}

// Processor is an outside workshop that performs finishing work.
// ProcessingTypes is stored comma joined in a single cell.
type Processor struct {
	ID              string                 `json:"processorId"`
	Name            string                 `json:"name"`
	ProcessingTypes []enums.ProcessingType `json:"processingTypes"`
	Contact         string                 `json:"contact,omitempty"`
	Address         string                 `json:"address,omitempty"`
	Remarks         string                 `json:"remarks,omitempty"`
}

const (
	processorColID = iota
	processorColName
	processorColProcessingTypes
	processorColContact
	processorColAddress
	processorColRemarks

	processorColCount
)

type ProcessorCodec struct{}

func (ProcessorCodec) Sheet() string {
	return SheetProcessors
}

func (ProcessorCodec) Header() []string {
	return []string{"processor_id", "name", "processing_types", "contact", "address", "remarks"}
}

func (ProcessorCodec) ID(p Processor) string {
	return p.ID
}

func (ProcessorCodec) Encode(p Processor) []string {
	types := make([]string, 0, len(p.ProcessingTypes))
	for _, t := range p.ProcessingTypes {
		types = append(types, t.String())
	}
	cells := make([]string, processorColCount)
	cells[processorColID] = p.ID
	cells[processorColName] = p.Name
	cells[processorColProcessingTypes] = strings.Join(types, ",")
	cells[processorColContact] = p.Contact
	cells[processorColAddress] = p.Address
	cells[processorColRemarks] = p.Remarks
	return cells
}

func (ProcessorCodec) Decode(cells []string) (Processor, error) {
	var types []enums.ProcessingType
	if raw := sheet.Cell(cells, processorColProcessingTypes); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			types = append(types, enums.ProcessingType(strings.TrimSpace(part)))
		}
	}
	return Processor{
		ID:              sheet.Cell(cells, processorColID),
		Name:            sheet.Cell(cells, processorColName),
		ProcessingTypes: types,
		Contact:         sheet.Cell(cells, processorColContact),
		Address:         sheet.Cell(cells, processorColAddress),
		Remarks:         sheet.Cell(cells, processorColRemarks),
	}, nil
}

// StorageLocation is a physical place where slabs are kept. LastAuditDate
// is stamped when a stocktake of the location completes.
type StorageLocation struct {
	ID            string     `json:"storageLocationId"`
	Name          string     `json:"name"`
	DisplayOrder  int        `json:"displayOrder"`
	LastAuditDate *time.Time `json:"lastAuditDate,omitempty"`
}

const (
	locationColID = iota
	locationColName
	locationColDisplayOrder
	locationColLastAuditDate

	locationColCount
)

type StorageLocationCodec struct{}

func (StorageLocationCodec) Sheet() string {
	return SheetStorageLocations
}

func (StorageLocationCodec) Header() []string {
	return []string{"storage_location_id", "name", "display_order", "last_audit_date"}
}

func (StorageLocationCodec) ID(l StorageLocation) string {
	return l.ID
}

func (StorageLocationCodec) Encode(l StorageLocation) []string {
	cells := make([]string, locationColCount)
	cells[locationColID] = l.ID
	cells[locationColName] = l.Name
	cells[locationColDisplayOrder] = sheet.FormatInt(l.DisplayOrder)
	cells[locationColLastAuditDate] = sheet.FormatDate(l.LastAuditDate)
	return cells
}

func (StorageLocationCodec) Decode(cells []string) (StorageLocation, error) {
	return StorageLocation{
		ID:            sheet.Cell(cells, locationColID),
		Name:          sheet.Cell(cells, locationColName),
		DisplayOrder:  sheet.CellInt(cells, locationColDisplayOrder),
		LastAuditDate: sheet.CellDate(cells, locationColLastAuditDate),
	}, nil
}

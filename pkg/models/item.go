package models

import (
	"time"

	"github.com/slabworks/slabstock-backend/pkg/enums"
	"github.com/slabworks/slabstock-backend/pkg/sheet"
)

// SheetItems is the sheet holding stock items.
const SheetItems = "items"

// Item is one slab of timber in stock. Monetary amounts are tax
// exclusive unless the field says otherwise.
type Item struct {
	ID            string `json:"itemId"`
	MajorCategory string `json:"majorCategory"`
	MinorCategory string `json:"minorCategory,omitempty"`
	Name          string `json:"name"`
	WoodType      string `json:"woodType"`

	RawLength         float64 `json:"rawLength,omitempty"`
	RawWidth          float64 `json:"rawWidth,omitempty"`
	RawThickness      float64 `json:"rawThickness,omitempty"`
	FinishedLength    float64 `json:"finishedLength,omitempty"`
	FinishedWidth     float64 `json:"finishedWidth,omitempty"`
	FinishedThickness float64 `json:"finishedThickness,omitempty"`

	RawPhotoURLs      string `json:"rawPhotoUrls,omitempty"`
	FinishedPhotoURLs string `json:"finishedPhotoUrls,omitempty"`

	SupplierID    string     `json:"supplierId"`
	PurchaseDate  *time.Time `json:"purchaseDate,omitempty"`
	PurchasePrice float64    `json:"purchasePrice"`

	StorageLocationID string  `json:"storageLocationId"`
	ShippingCost      float64 `json:"shippingCost,omitempty"`
	ProfitMargin      float64 `json:"profitMargin,omitempty"`
	PriceAdjustment   float64 `json:"priceAdjustment,omitempty"`

	Status enums.ItemStatus `json:"status"`

	SalesDestination string     `json:"salesDestination,omitempty"`
	SalesDate        *time.Time `json:"salesDate,omitempty"`
	ActualSalesPrice float64    `json:"actualSalesPrice,omitempty"`
	SalesRemarks     string     `json:"salesRemarks,omitempty"`

	LastAuditDate *time.Time `json:"lastAuditDate,omitempty"`

	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
	DeleteReason string     `json:"deleteReason,omitempty"`

	Remarks string `json:"remarks,omitempty"`

	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	CreatedBy string     `json:"createdBy,omitempty"`
	UpdatedBy string     `json:"updatedBy,omitempty"`

	ShippingCarrier string     `json:"shippingCarrier,omitempty"`
	DeliveryDate    *time.Time `json:"deliveryDate,omitempty"`
	Negotiator      string     `json:"negotiator,omitempty"`
	Department      string     `json:"department,omitempty"`
}

const (
	itemColID = iota
	itemColMajorCategory
	itemColMinorCategory
	itemColName
	itemColWoodType
	itemColRawLength
	itemColRawWidth
	itemColRawThickness
	itemColFinishedLength
	itemColFinishedWidth
	itemColFinishedThickness
	itemColRawPhotoURLs
	itemColFinishedPhotoURLs
	itemColSupplierID
	itemColPurchaseDate
	itemColPurchasePrice
	itemColStorageLocationID
	itemColShippingCost
	itemColProfitMargin
	itemColPriceAdjustment
	itemColStatus
	itemColSalesDestination
	itemColSalesDate
	itemColActualSalesPrice
	itemColSalesRemarks
	itemColLastAuditDate
	itemColDeletedAt
	itemColDeleteReason
	itemColRemarks
	itemColCreatedAt
	itemColUpdatedAt
	itemColCreatedBy
	itemColUpdatedBy
	itemColShippingCarrier
	itemColDeliveryDate
	itemColNegotiator
	itemColDepartment

	itemColCount
)

// ItemCodec maps items onto the items sheet.
type ItemCodec struct{}

func (ItemCodec) Sheet() string {
	return SheetItems
}

func (ItemCodec) Header() []string {
	header := make([]string, itemColCount)
	header[itemColID] = "item_id"
	header[itemColMajorCategory] = "major_category"
	header[itemColMinorCategory] = "minor_category"
	header[itemColName] = "name"
	header[itemColWoodType] = "wood_type"
	header[itemColRawLength] = "raw_length"
	header[itemColRawWidth] = "raw_width"
	header[itemColRawThickness] = "raw_thickness"
	header[itemColFinishedLength] = "finished_length"
	header[itemColFinishedWidth] = "finished_width"
	header[itemColFinishedThickness] = "finished_thickness"
	header[itemColRawPhotoURLs] = "raw_photo_urls"
	header[itemColFinishedPhotoURLs] = "finished_photo_urls"
	header[itemColSupplierID] = "supplier_id"
	header[itemColPurchaseDate] = "purchase_date"
	header[itemColPurchasePrice] = "purchase_price"
	header[itemColStorageLocationID] = "storage_location_id"
	header[itemColShippingCost] = "shipping_cost"
	header[itemColProfitMargin] = "profit_margin"
	header[itemColPriceAdjustment] = "price_adjustment"
	header[itemColStatus] = "status"
	header[itemColSalesDestination] = "sales_destination"
	header[itemColSalesDate] = "sales_date"
	header[itemColActualSalesPrice] = "actual_sales_price"
	header[itemColSalesRemarks] = "sales_remarks"
	header[itemColLastAuditDate] = "last_audit_date"
	header[itemColDeletedAt] = "deleted_at"
	header[itemColDeleteReason] = "delete_reason"
	header[itemColRemarks] = "remarks"
	header[itemColCreatedAt] = "created_at"
	header[itemColUpdatedAt] = "updated_at"
	header[itemColCreatedBy] = "created_by"
	header[itemColUpdatedBy] = "updated_by"
	header[itemColShippingCarrier] = "shipping_carrier"
	header[itemColDeliveryDate] = "delivery_date"
	header[itemColNegotiator] = "negotiator"
	header[itemColDepartment] = "department"
	return header
}

func (ItemCodec) ID(item Item) string {
	return item.ID
}

func (ItemCodec) Encode(item Item) []string {
	cells := make([]string, itemColCount)
	cells[itemColID] = item.ID
	cells[itemColMajorCategory] = item.MajorCategory
	cells[itemColMinorCategory] = item.MinorCategory
	cells[itemColName] = item.Name
	cells[itemColWoodType] = item.WoodType
	cells[itemColRawLength] = encodeOptionalFloat(item.RawLength)
	cells[itemColRawWidth] = encodeOptionalFloat(item.RawWidth)
	cells[itemColRawThickness] = encodeOptionalFloat(item.RawThickness)
	cells[itemColFinishedLength] = encodeOptionalFloat(item.FinishedLength)
	cells[itemColFinishedWidth] = encodeOptionalFloat(item.FinishedWidth)
	cells[itemColFinishedThickness] = encodeOptionalFloat(item.FinishedThickness)
	cells[itemColRawPhotoURLs] = item.RawPhotoURLs
	cells[itemColFinishedPhotoURLs] = item.FinishedPhotoURLs
	cells[itemColSupplierID] = item.SupplierID
	cells[itemColPurchaseDate] = sheet.FormatDate(item.PurchaseDate)
	cells[itemColPurchasePrice] = sheet.FormatFloat(item.PurchasePrice)
	cells[itemColStorageLocationID] = item.StorageLocationID
	cells[itemColShippingCost] = encodeOptionalFloat(item.ShippingCost)
	cells[itemColProfitMargin] = encodeOptionalFloat(item.ProfitMargin)
	cells[itemColPriceAdjustment] = encodeOptionalFloat(item.PriceAdjustment)
	cells[itemColStatus] = item.Status.String()
	cells[itemColSalesDestination] = item.SalesDestination
	cells[itemColSalesDate] = sheet.FormatDate(item.SalesDate)
	cells[itemColActualSalesPrice] = encodeOptionalFloat(item.ActualSalesPrice)
	cells[itemColSalesRemarks] = item.SalesRemarks
	cells[itemColLastAuditDate] = sheet.FormatDate(item.LastAuditDate)
	cells[itemColDeletedAt] = sheet.FormatTime(item.DeletedAt)
	cells[itemColDeleteReason] = item.DeleteReason
	cells[itemColRemarks] = item.Remarks
	cells[itemColCreatedAt] = sheet.FormatTime(item.CreatedAt)
	cells[itemColUpdatedAt] = sheet.FormatTime(item.UpdatedAt)
	cells[itemColCreatedBy] = item.CreatedBy
	cells[itemColUpdatedBy] = item.UpdatedBy
	cells[itemColShippingCarrier] = item.ShippingCarrier
	cells[itemColDeliveryDate] = sheet.FormatDate(item.DeliveryDate)
	cells[itemColNegotiator] = item.Negotiator
	cells[itemColDepartment] = item.Department
	return cells
}

func (ItemCodec) Decode(cells []string) (Item, error) {
	return Item{
		ID:                sheet.Cell(cells, itemColID),
		MajorCategory:     sheet.Cell(cells, itemColMajorCategory),
		MinorCategory:     sheet.Cell(cells, itemColMinorCategory),
		Name:              sheet.Cell(cells, itemColName),
		WoodType:          sheet.Cell(cells, itemColWoodType),
		RawLength:         sheet.CellFloat(cells, itemColRawLength),
		RawWidth:          sheet.CellFloat(cells, itemColRawWidth),
		RawThickness:      sheet.CellFloat(cells, itemColRawThickness),
		FinishedLength:    sheet.CellFloat(cells, itemColFinishedLength),
		FinishedWidth:     sheet.CellFloat(cells, itemColFinishedWidth),
		FinishedThickness: sheet.CellFloat(cells, itemColFinishedThickness),
		RawPhotoURLs:      sheet.Cell(cells, itemColRawPhotoURLs),
		FinishedPhotoURLs: sheet.Cell(cells, itemColFinishedPhotoURLs),
		SupplierID:        sheet.Cell(cells, itemColSupplierID),
		PurchaseDate:      sheet.CellDate(cells, itemColPurchaseDate),
		PurchasePrice:     sheet.CellFloat(cells, itemColPurchasePrice),
		StorageLocationID: sheet.Cell(cells, itemColStorageLocationID),
		ShippingCost:      sheet.CellFloat(cells, itemColShippingCost),
		ProfitMargin:      sheet.CellFloat(cells, itemColProfitMargin),
		PriceAdjustment:   sheet.CellFloat(cells, itemColPriceAdjustment),
		Status:            enums.ItemStatus(sheet.Cell(cells, itemColStatus)),
		SalesDestination:  sheet.Cell(cells, itemColSalesDestination),
		SalesDate:         sheet.CellDate(cells, itemColSalesDate),
		ActualSalesPrice:  sheet.CellFloat(cells, itemColActualSalesPrice),
		SalesRemarks:      sheet.Cell(cells, itemColSalesRemarks),
		LastAuditDate:     sheet.CellDate(cells, itemColLastAuditDate),
		DeletedAt:         sheet.CellTime(cells, itemColDeletedAt),
		DeleteReason:      sheet.Cell(cells, itemColDeleteReason),
		Remarks:           sheet.Cell(cells, itemColRemarks),
		CreatedAt:         sheet.CellTime(cells, itemColCreatedAt),
		UpdatedAt:         sheet.CellTime(cells, itemColUpdatedAt),
		CreatedBy:         sheet.Cell(cells, itemColCreatedBy),
		UpdatedBy:         sheet.Cell(cells, itemColUpdatedBy),
		ShippingCarrier:   sheet.Cell(cells, itemColShippingCarrier),
		DeliveryDate:      sheet.CellDate(cells, itemColDeliveryDate),
		Negotiator:        sheet.Cell(cells, itemColNegotiator),
		Department:        sheet.Cell(cells, itemColDepartment),
	}, nil
}

// encodeOptionalFloat renders zero as blank so optional numeric columns
// stay empty rather than showing a literal 0.
func encodeOptionalFloat(f float64) string {
	if f == 0 {
		return ""
	}
	return sheet.FormatFloat(f)
}

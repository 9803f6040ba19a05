package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/slabworks/slabstock-backend/pkg/enums"
)

func TestItemCodecRoundTrip(t *testing.T) {
	purchase := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	created := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	item := Item{
		ID:                "ITA-0001",
		MajorCategory:     "dining_table",
		Name:              "Walnut slab 2100",
		WoodType:          "WOOD-0001",
		RawLength:         2100,
		RawWidth:          900,
		RawThickness:      55,
		SupplierID:        "SUP-0002",
		PurchaseDate:      &purchase,
		PurchasePrice:     180000,
		StorageLocationID: "LOC-0001",
		ProfitMargin:      0.6,
		Status:            enums.ItemStatusAvailable,
		CreatedAt:         &created,
		CreatedBy:         "yamada",
	}

	codec := ItemCodec{}
	cells := codec.Encode(item)
	require.Len(t, cells, len(codec.Header()))

	decoded, err := codec.Decode(cells)
	require.NoError(t, err)
	require.Equal(t, item, decoded)
}

func TestItemCodecDecodesShortRows(t *testing.T) {
	// Rows written before later columns existed decode with zero values.
	decoded, err := ItemCodec{}.Decode([]string{"ITA-0002", "bench", "", "Oak bench", "WOOD-0003"})
	require.NoError(t, err)
	require.Equal(t, "ITA-0002", decoded.ID)
	require.Equal(t, "Oak bench", decoded.Name)
	require.Empty(t, decoded.Department)
	require.Nil(t, decoded.PurchaseDate)
}

func TestItemCodecBlankOptionalNumbers(t *testing.T) {
	cells := ItemCodec{}.Encode(Item{ID: "ITA-0003", Status: enums.ItemStatusAvailable})
	require.Equal(t, "", cells[itemColShippingCost])
	require.Equal(t, "0", cells[itemColPurchasePrice])
}

func TestAuditSessionCodecRoundTrip(t *testing.T) {
	started := time.Date(2025, 1, 31, 8, 0, 0, 0, time.UTC)
	session := AuditSession{
		ID:                "INV-20250131-001",
		StorageLocationID: "LOC-0002",
		StartedAt:         &started,
		StartedBy:         "suzuki",
		Status:            enums.AuditSessionStatusActive,
		TargetCount:       14,
	}

	codec := AuditSessionCodec{}
	decoded, err := codec.Decode(codec.Encode(session))
	require.NoError(t, err)
	require.Equal(t, session, decoded)
}

func TestProcessorCodecJoinsTypes(t *testing.T) {
	codec := ProcessorCodec{}
	processor := Processor{
		ID:   "PROC-0001",
		Name: "Finishing Works",
		ProcessingTypes: []enums.ProcessingType{
			enums.ProcessingTypeWoodwork,
			enums.ProcessingTypeFinishing,
		},
	}

	cells := codec.Encode(processor)
	require.Equal(t, "woodwork,finishing", cells[processorColProcessingTypes])

	decoded, err := codec.Decode(cells)
	require.NoError(t, err)
	require.Equal(t, processor.ProcessingTypes, decoded.ProcessingTypes)
}

package enums

import "fmt"

// DiscrepancyKind classifies a stocktake outcome other than a clean
// confirmation.
type DiscrepancyKind string

const (
	DiscrepancyKindMissing           DiscrepancyKind = "missing"
	DiscrepancyKindWrongLocation     DiscrepancyKind = "wrong_location"
	DiscrepancyKindUnregisteredFound DiscrepancyKind = "unregistered_found"
	DiscrepancyKindOther             DiscrepancyKind = "other"
)

var validDiscrepancyKinds = []DiscrepancyKind{
	DiscrepancyKindMissing,
	DiscrepancyKindWrongLocation,
	DiscrepancyKindUnregisteredFound,
	DiscrepancyKindOther,
}

// String returns the literal string for the kind.
func (k DiscrepancyKind) String() string {
	return string(k)
}

// IsValid reports whether the kind is known.
func (k DiscrepancyKind) IsValid() bool {
	for _, candidate := range validDiscrepancyKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseDiscrepancyKind converts raw input into a DiscrepancyKind.
func ParseDiscrepancyKind(value string) (DiscrepancyKind, error) {
	for _, candidate := range validDiscrepancyKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discrepancy kind %q", value)
}

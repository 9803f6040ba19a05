package enums

import "fmt"

// ConfirmationMethod records how an item was sighted during a stocktake.
type ConfirmationMethod string

const (
	ConfirmationMethodQRScan     ConfirmationMethod = "qr_scan"
	ConfirmationMethodManual     ConfirmationMethod = "manual_entry"
	ConfirmationMethodListSelect ConfirmationMethod = "list_select"
)

var validConfirmationMethods = []ConfirmationMethod{
	ConfirmationMethodQRScan,
	ConfirmationMethodManual,
	ConfirmationMethodListSelect,
}

// String returns the literal string for the method.
func (m ConfirmationMethod) String() string {
	return string(m)
}

// IsValid reports whether the method is known.
func (m ConfirmationMethod) IsValid() bool {
	for _, candidate := range validConfirmationMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseConfirmationMethod converts raw input into a ConfirmationMethod.
func ParseConfirmationMethod(value string) (ConfirmationMethod, error) {
	for _, candidate := range validConfirmationMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid confirmation method %q", value)
}

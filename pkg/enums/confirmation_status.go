package enums

import "fmt"

// ConfirmationStatus describes the outcome recorded for one item within a
// stocktake session.
type ConfirmationStatus string

const (
	ConfirmationStatusUnconfirmed ConfirmationStatus = "unconfirmed"
	ConfirmationStatusConfirmed   ConfirmationStatus = "confirmed"
	ConfirmationStatusDiscrepant  ConfirmationStatus = "discrepant"
)

var validConfirmationStatuses = []ConfirmationStatus{
	ConfirmationStatusUnconfirmed,
	ConfirmationStatusConfirmed,
	ConfirmationStatusDiscrepant,
}

// String returns the literal string for the status.
func (s ConfirmationStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is known.
func (s ConfirmationStatus) IsValid() bool {
	for _, candidate := range validConfirmationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseConfirmationStatus converts raw input into a ConfirmationStatus.
func ParseConfirmationStatus(value string) (ConfirmationStatus, error) {
	for _, candidate := range validConfirmationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid confirmation status %q", value)
}

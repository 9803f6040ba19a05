package enums

import "fmt"

// AuditSessionStatus describes the lifecycle state of a stocktake session.
type AuditSessionStatus string

const (
	AuditSessionStatusActive    AuditSessionStatus = "active"
	AuditSessionStatusPaused    AuditSessionStatus = "paused"
	AuditSessionStatusCompleted AuditSessionStatus = "completed"
)

var validAuditSessionStatuses = []AuditSessionStatus{
	AuditSessionStatusActive,
	AuditSessionStatusPaused,
	AuditSessionStatusCompleted,
}

// String returns the literal string for the status.
func (s AuditSessionStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is known.
func (s AuditSessionStatus) IsValid() bool {
	for _, candidate := range validAuditSessionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseAuditSessionStatus converts raw input into an AuditSessionStatus.
func ParseAuditSessionStatus(value string) (AuditSessionStatus, error) {
	for _, candidate := range validAuditSessionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid audit session status %q", value)
}

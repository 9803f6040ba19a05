package enums

import "fmt"

// ItemStatus describes the sale lifecycle state of a stock item.
type ItemStatus string

const (
	ItemStatusAvailable   ItemStatus = "available"
	ItemStatusNegotiating ItemStatus = "negotiating"
	ItemStatusSold        ItemStatus = "sold"
	ItemStatusAuditing    ItemStatus = "auditing"
	ItemStatusDeleted     ItemStatus = "deleted"
	ItemStatusLost        ItemStatus = "lost"
)

var validItemStatuses = []ItemStatus{
	ItemStatusAvailable,
	ItemStatusNegotiating,
	ItemStatusSold,
	ItemStatusAuditing,
	ItemStatusDeleted,
	ItemStatusLost,
}

// String returns the literal string for the status.
func (s ItemStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is known.
func (s ItemStatus) IsValid() bool {
	for _, candidate := range validItemStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseItemStatus converts raw input into an ItemStatus.
func ParseItemStatus(value string) (ItemStatus, error) {
	for _, candidate := range validItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item status %q", value)
}

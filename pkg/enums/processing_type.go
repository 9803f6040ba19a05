package enums

import "fmt"

// ProcessingType classifies outsourced work done on a slab.
type ProcessingType string

const (
	ProcessingTypeWoodwork  ProcessingType = "woodwork"
	ProcessingTypeFinishing ProcessingType = "finishing"
	ProcessingTypeLegs      ProcessingType = "legs"
	ProcessingTypeGlass     ProcessingType = "glass"
	ProcessingTypeOther     ProcessingType = "other"
)

var validProcessingTypes = []ProcessingType{
	ProcessingTypeWoodwork,
	ProcessingTypeFinishing,
	ProcessingTypeLegs,
	ProcessingTypeGlass,
	ProcessingTypeOther,
}

// String returns the literal string for the type.
func (p ProcessingType) String() string {
	return string(p)
}

// IsValid reports whether the type is known.
func (p ProcessingType) IsValid() bool {
	for _, candidate := range validProcessingTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProcessingType converts raw input into a ProcessingType.
func ParseProcessingType(value string) (ProcessingType, error) {
	for _, candidate := range validProcessingTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid processing type %q", value)
}

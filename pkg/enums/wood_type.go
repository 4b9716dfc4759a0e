package enums

import (
	"fmt"
	"strings"
)

// WoodType names the timber a piece is built from.
type WoodType string

const (
	WoodTypeSheesham WoodType = "sheesham"
	WoodTypeTeak     WoodType = "teak"
	WoodTypeOak      WoodType = "oak"
	WoodTypeWalnut   WoodType = "walnut"
	WoodTypeMahogany WoodType = "mahogany"
	WoodTypePine     WoodType = "pine"
	WoodTypeDeodar   WoodType = "deodar"
	WoodTypeRosewood WoodType = "rosewood"
	WoodTypeMDF      WoodType = "mdf"
	WoodTypePlywood  WoodType = "plywood"
)

var validWoodTypes = []WoodType{
	WoodTypeSheesham,
	WoodTypeTeak,
	WoodTypeOak,
	WoodTypeWalnut,
	WoodTypeMahogany,
	WoodTypePine,
	WoodTypeDeodar,
	WoodTypeRosewood,
	WoodTypeMDF,
	WoodTypePlywood,
}

// String implements fmt.Stringer.
func (w WoodType) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WoodType.
func (w WoodType) IsValid() bool {
	for _, candidate := range validWoodTypes {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWoodType converts raw input into a WoodType. Matching ignores case and
// surrounding whitespace so upper-case constants are accepted too.
func ParseWoodType(value string) (WoodType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validWoodTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid wood type %q", value)
}

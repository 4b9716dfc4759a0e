package enums

import (
	"fmt"
	"strings"
)

// FurnitureKind identifies which furniture variant a record carries.
type FurnitureKind string

const (
	FurnitureKindBed    FurnitureKind = "bed"
	FurnitureKindChair  FurnitureKind = "chair"
	FurnitureKindSofa   FurnitureKind = "sofa"
	FurnitureKindTables FurnitureKind = "tables"
	FurnitureKindMisc   FurnitureKind = "misc"
)

var validFurnitureKinds = []FurnitureKind{
	FurnitureKindBed,
	FurnitureKindChair,
	FurnitureKindSofa,
	FurnitureKindTables,
	FurnitureKindMisc,
}

// String implements fmt.Stringer.
func (f FurnitureKind) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FurnitureKind.
func (f FurnitureKind) IsValid() bool {
	for _, candidate := range validFurnitureKinds {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFurnitureKind converts raw input into a FurnitureKind. Matching ignores case and
// surrounding whitespace so upper-case constants are accepted too.
func ParseFurnitureKind(value string) (FurnitureKind, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validFurnitureKinds {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid furniture kind %q", value)
}

// FurnitureKinds lists every furniture kind in declaration order.
func FurnitureKinds() []FurnitureKind {
	return append([]FurnitureKind(nil), validFurnitureKinds...)
}

package enums

import (
	"fmt"
	"strings"
)

// SupplierType classifies how a supplier sources its goods.
type SupplierType string

const (
	SupplierTypeManufacturer SupplierType = "manufacturer"
	SupplierTypeWholesaler   SupplierType = "wholesaler"
	SupplierTypeArtisan      SupplierType = "artisan"
	SupplierTypeImporter     SupplierType = "importer"
)

var validSupplierTypes = []SupplierType{
	SupplierTypeManufacturer,
	SupplierTypeWholesaler,
	SupplierTypeArtisan,
	SupplierTypeImporter,
}

// String implements fmt.Stringer.
func (s SupplierType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SupplierType.
func (s SupplierType) IsValid() bool {
	for _, candidate := range validSupplierTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSupplierType converts raw input into a SupplierType. Matching ignores case and
// surrounding whitespace so upper-case constants are accepted too.
func ParseSupplierType(value string) (SupplierType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validSupplierTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid supplier type %q", value)
}

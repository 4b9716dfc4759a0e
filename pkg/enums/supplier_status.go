package enums

import (
	"fmt"
	"strings"
)

type SupplierStatus string

const (
	SupplierStatusActive      SupplierStatus = "active"
	SupplierStatusOnHold      SupplierStatus = "on_hold"
	SupplierStatusInactive    SupplierStatus = "inactive"
	SupplierStatusBlacklisted SupplierStatus = "blacklisted"
)

var validSupplierStatuses = []SupplierStatus{
	SupplierStatusActive,
	SupplierStatusOnHold,
	SupplierStatusInactive,
	SupplierStatusBlacklisted,
}

// String implements fmt.Stringer.
func (s SupplierStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SupplierStatus.
func (s SupplierStatus) IsValid() bool {
	for _, candidate := range validSupplierStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSupplierStatus converts raw input into a SupplierStatus. Matching ignores case and
// surrounding whitespace so upper-case constants are accepted too.
func ParseSupplierStatus(value string) (SupplierStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validSupplierStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid supplier status %q", value)
}

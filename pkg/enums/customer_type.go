package enums

import (
	"fmt"
	"strings"
)

// CustomerType segments customers for pricing and loyalty.
type CustomerType string

const (
	CustomerTypeVIP       CustomerType = "vip"
	CustomerTypeCorporate CustomerType = "corporate"
	CustomerTypeWholesale CustomerType = "wholesale"
	CustomerTypeFirstTime CustomerType = "first_time"
	CustomerTypeRegular   CustomerType = "regular"
)

var validCustomerTypes = []CustomerType{
	CustomerTypeVIP,
	CustomerTypeCorporate,
	CustomerTypeWholesale,
	CustomerTypeFirstTime,
	CustomerTypeRegular,
}

// String implements fmt.Stringer.
func (c CustomerType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CustomerType.
func (c CustomerType) IsValid() bool {
	for _, candidate := range validCustomerTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCustomerType converts raw input into a CustomerType. Matching ignores case and
// surrounding whitespace so upper-case constants are accepted too.
func ParseCustomerType(value string) (CustomerType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validCustomerTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer type %q", value)
}

package enums

import (
	"fmt"
	"strings"
)

// PaymentMethod enumerates the accepted ways to pay.
type PaymentMethod string

const (
	PaymentMethodCash            PaymentMethod = "cash"
	PaymentMethodBankTransfer    PaymentMethod = "bank_transfer"
	PaymentMethodEasyPaisa       PaymentMethod = "easy_paisa"
	PaymentMethodJazzCash        PaymentMethod = "jazz_cash"
	PaymentMethodPostDatedCheque PaymentMethod = "post_dated_cheque"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodBankTransfer,
	PaymentMethodEasyPaisa,
	PaymentMethodJazzCash,
	PaymentMethodPostDatedCheque,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod. Matching ignores case and
// surrounding whitespace so upper-case constants are accepted too.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validPaymentMethods {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}

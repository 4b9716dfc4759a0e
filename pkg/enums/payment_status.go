package enums

import (
	"fmt"
	"strings"
)

// PaymentStatus tracks how much of an order has been paid.
type PaymentStatus string

const (
	PaymentStatusPending             PaymentStatus = "pending"
	PaymentStatusPartial             PaymentStatus = "partial"
	PaymentStatusAdvancePaid         PaymentStatus = "advance_paid"
	PaymentStatusCompleted           PaymentStatus = "completed"
	PaymentStatusInstallmentsOngoing PaymentStatus = "installments_ongoing"
	PaymentStatusDefaulted           PaymentStatus = "defaulted"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusPartial,
	PaymentStatusAdvancePaid,
	PaymentStatusCompleted,
	PaymentStatusInstallmentsOngoing,
	PaymentStatusDefaulted,
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentStatus converts raw input into a PaymentStatus. Matching ignores case and
// surrounding whitespace so upper-case constants are accepted too.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}

package enums

import (
	"fmt"
	"strings"
)

// PaymentPlan describes how an order total is settled over time.
type PaymentPlan string

const (
	PaymentPlanFullPayment    PaymentPlan = "full_payment"
	PaymentPlanInstallments   PaymentPlan = "installments"
	PaymentPlanAdvancePayment PaymentPlan = "advance_payment"
	PaymentPlanLeaseToOwn     PaymentPlan = "lease_to_own"
)

var validPaymentPlans = []PaymentPlan{
	PaymentPlanFullPayment,
	PaymentPlanInstallments,
	PaymentPlanAdvancePayment,
	PaymentPlanLeaseToOwn,
}

// String implements fmt.Stringer.
func (p PaymentPlan) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentPlan.
func (p PaymentPlan) IsValid() bool {
	for _, candidate := range validPaymentPlans {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentPlan converts raw input into a PaymentPlan. Matching ignores case and
// surrounding whitespace so upper-case constants are accepted too.
func ParsePaymentPlan(value string) (PaymentPlan, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validPaymentPlans {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment plan %q", value)
}

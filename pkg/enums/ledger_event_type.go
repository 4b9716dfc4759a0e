package enums

import "fmt"

// LedgerEventType classifies a row of an order's payment history.
type LedgerEventType string

const (
	LedgerEventPayment          LedgerEventType = "payment"
	LedgerEventSettlement       LedgerEventType = "settlement"
	LedgerEventStatusUpdate     LedgerEventType = "status_update"
	LedgerEventInstallmentsPlan LedgerEventType = "installments_plan"
)

var validLedgerEventTypes = []LedgerEventType{
	LedgerEventPayment,
	LedgerEventSettlement,
	LedgerEventStatusUpdate,
	LedgerEventInstallmentsPlan,
}

func (t LedgerEventType) IsValid() bool {
	for _, candidate := range validLedgerEventTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseLedgerEventType converts raw input into LedgerEventType.
func ParseLedgerEventType(value string) (LedgerEventType, error) {
	for _, candidate := range validLedgerEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ledger event type %q", value)
}

// LedgerEventForPayment classifies an applied payment by the amount received
// and the payment status the order ended up in.
func LedgerEventForPayment(amount float64, result PaymentStatus) LedgerEventType {
	switch {
	case amount <= 0:
		return LedgerEventStatusUpdate
	case result == PaymentStatusCompleted:
		return LedgerEventSettlement
	default:
		return LedgerEventPayment
	}
}

package orders

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/totofurniture/furnistore-backend/pkg/db/models"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
)

var ErrInvalidInstallmentMonths = errors.New("installment months must be positive")

// AddItem appends a furniture row to the order and recomputes the total.
func AddItem(o *models.Order, f *models.Furniture) *models.OrderItem {
	position := 0
	for _, item := range o.Items {
		if item.Position >= position {
			position = item.Position + 1
		}
	}
	o.Items = append(o.Items, models.OrderItem{
		ID:          uuid.New(),
		OrderID:     o.ID,
		FurnitureID: f.ID,
		Position:    position,
		Furniture:   f,
	})
	RecalculateTotal(o)
	return &o.Items[len(o.Items)-1]
}

// RemoveItem drops the first row referencing furnitureID and recomputes the
// total. It returns the removed row, or nil when the furniture is not on the
// order.
func RemoveItem(o *models.Order, furnitureID uuid.UUID) *models.OrderItem {
	for i, item := range o.Items {
		if item.FurnitureID != furnitureID {
			continue
		}
		removed := item
		o.Items = append(o.Items[:i:i], o.Items[i+1:]...)
		RecalculateTotal(o)
		return &removed
	}
	return nil
}

// RecalculateTotal sets TotalAmount to the plain sum of item prices.
func RecalculateTotal(o *models.Order) {
	total := decimal.Zero
	for _, item := range o.Items {
		if item.Furniture == nil {
			continue
		}
		total = total.Add(decimal.NewFromFloat(item.Furniture.Price))
	}
	o.TotalAmount = total.InexactFloat64()
}

// TransitionStatus moves the order to status. Entering delivered from any
// other status stamps the actual delivery date.
func TransitionStatus(o *models.Order, status enums.OrderStatus, now time.Time) {
	if status == enums.OrderStatusDelivered && o.Status != enums.OrderStatusDelivered {
		delivered := now.UTC()
		o.ActualDeliveryDate = &delivered
	}
	o.Status = status
}

// ApplyPayment records the requested payment status. A positive amount is
// added to the advance and the status is then derived from what remains.
func ApplyPayment(o *models.Order, requested enums.PaymentStatus, amount float64) {
	o.PaymentStatus = requested
	if amount <= 0 {
		return
	}
	advance := decimal.NewFromFloat(o.AdvancePayment).Add(decimal.NewFromFloat(amount))
	remaining := decimal.NewFromFloat(o.TotalAmount).Sub(advance)

	o.AdvancePayment = advance.InexactFloat64()
	o.RemainingPayment = decimal.Max(decimal.Zero, remaining).InexactFloat64()
	if remaining.LessThanOrEqual(decimal.Zero) {
		o.PaymentStatus = enums.PaymentStatusCompleted
	} else {
		o.PaymentStatus = enums.PaymentStatusPartial
	}
}

// PlanInstallments switches the order to an installment plan over months.
// The monthly amount is the unpaid balance split evenly, rounded to cents.
func PlanInstallments(o *models.Order, months int) error {
	if months <= 0 {
		return ErrInvalidInstallmentMonths
	}
	o.PaymentPlan = enums.PaymentPlanInstallments
	o.InstallmentMonths = months

	remaining := decimal.NewFromFloat(o.TotalAmount).Sub(decimal.NewFromFloat(o.AdvancePayment))
	if remaining.GreaterThan(decimal.Zero) {
		o.MonthlyInstallmentAmount = remaining.Div(decimal.NewFromInt(int64(months))).Round(2).InexactFloat64()
		o.RemainingPayment = remaining.InexactFloat64()
	}
	return nil
}

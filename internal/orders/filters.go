package orders

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/totofurniture/furnistore-backend/pkg/enums"
)

// Filter narrows order lookups. Time and amount bounds are inclusive.
type Filter struct {
	CustomerID             *uuid.UUID
	Status                 *enums.OrderStatus
	ExcludeStatus          *enums.OrderStatus
	PaymentMethod          *enums.PaymentMethod
	PaymentPlan            *enums.PaymentPlan
	PaymentStatuses        []enums.PaymentStatus
	OrderedAfter           *time.Time
	OrderedBefore          *time.Time
	ExpectedDeliveryAfter  *time.Time
	ExpectedDeliveryBefore *time.Time
	DeliveredFrom          *time.Time
	DeliveredTo            *time.Time
	DeliveryCity           string
	DeliveryAreaContains   string
	RequiresAssembly       *bool
	RequiresInstallation   *bool
	SalesPersonContains    string
	TotalAbove             *float64
	TotalMin               *float64
	TotalMax               *float64
	ContainsFurniture      *uuid.UUID
}

func PendingOrders() Filter {
	s := enums.OrderStatusPending
	return Filter{Status: &s}
}

// OverdueDeliveries matches undelivered orders whose expected delivery date
// is before now.
func OverdueDeliveries(now time.Time) Filter {
	delivered := enums.OrderStatusDelivered
	before := now.UTC()
	return Filter{ExpectedDeliveryBefore: &before, ExcludeStatus: &delivered}
}

func PendingPayments() Filter {
	return Filter{PaymentStatuses: []enums.PaymentStatus{enums.PaymentStatusPending, enums.PaymentStatusPartial}}
}

func CustomerAndStatus(customerID uuid.UUID, status enums.OrderStatus) Filter {
	return Filter{CustomerID: &customerID, Status: &status}
}

func CityAndPaymentMethod(city string, method enums.PaymentMethod) Filter {
	return Filter{DeliveryCity: city, PaymentMethod: &method}
}

func ContainingFurniture(furnitureID uuid.UUID) Filter {
	return Filter{ContainsFurniture: &furnitureID}
}

func applyFilter(q *gorm.DB, f Filter) *gorm.DB {
	if f.CustomerID != nil {
		q = q.Where("orders.customer_id = ?", *f.CustomerID)
	}
	if f.Status != nil {
		q = q.Where("orders.status = ?", *f.Status)
	}
	if f.ExcludeStatus != nil {
		q = q.Where("orders.status <> ?", *f.ExcludeStatus)
	}
	if f.PaymentMethod != nil {
		q = q.Where("orders.payment_method = ?", *f.PaymentMethod)
	}
	if f.PaymentPlan != nil {
		q = q.Where("orders.payment_plan = ?", *f.PaymentPlan)
	}
	if len(f.PaymentStatuses) > 0 {
		q = q.Where("orders.payment_status IN ?", f.PaymentStatuses)
	}
	if f.OrderedAfter != nil {
		q = q.Where("orders.order_date >= ?", f.OrderedAfter.UTC())
	}
	if f.OrderedBefore != nil {
		q = q.Where("orders.order_date <= ?", f.OrderedBefore.UTC())
	}
	if f.ExpectedDeliveryAfter != nil {
		q = q.Where("orders.expected_delivery_date > ?", f.ExpectedDeliveryAfter.UTC())
	}
	if f.ExpectedDeliveryBefore != nil {
		q = q.Where("orders.expected_delivery_date < ?", f.ExpectedDeliveryBefore.UTC())
	}
	if f.DeliveredFrom != nil {
		q = q.Where("orders.actual_delivery_date >= ?", f.DeliveredFrom.UTC())
	}
	if f.DeliveredTo != nil {
		q = q.Where("orders.actual_delivery_date <= ?", f.DeliveredTo.UTC())
	}
	if f.DeliveryCity != "" {
		q = q.Where("LOWER(orders.delivery_city) = ?", strings.ToLower(strings.TrimSpace(f.DeliveryCity)))
	}
	if f.DeliveryAreaContains != "" {
		q = q.Where("LOWER(orders.delivery_area) LIKE ?", likeFold(f.DeliveryAreaContains))
	}
	if f.RequiresAssembly != nil {
		q = q.Where("orders.requires_assembly = ?", *f.RequiresAssembly)
	}
	if f.RequiresInstallation != nil {
		q = q.Where("orders.requires_installation = ?", *f.RequiresInstallation)
	}
	if f.SalesPersonContains != "" {
		q = q.Where("LOWER(orders.sales_person) LIKE ?", likeFold(f.SalesPersonContains))
	}
	if f.TotalAbove != nil {
		q = q.Where("orders.total_amount > ?", *f.TotalAbove)
	}
	if f.TotalMin != nil {
		q = q.Where("orders.total_amount >= ?", *f.TotalMin)
	}
	if f.TotalMax != nil {
		q = q.Where("orders.total_amount <= ?", *f.TotalMax)
	}
	if f.ContainsFurniture != nil {
		q = q.Where("EXISTS (SELECT 1 FROM order_items WHERE order_items.order_id = orders.id AND order_items.furniture_id = ?)", *f.ContainsFurniture)
	}
	return q
}

func likeFold(value string) string {
	return "%" + strings.ToLower(strings.TrimSpace(value)) + "%"
}

package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/totofurniture/furnistore-backend/pkg/enums"
)

// OrderCreatedEvent is emitted once per new order.
type OrderCreatedEvent struct {
	OrderID       uuid.UUID            `json:"order_id"`
	CustomerID    uuid.UUID            `json:"customer_id"`
	OrderDate     time.Time            `json:"order_date"`
	TotalAmount   float64              `json:"total_amount"`
	PaymentPlan   enums.PaymentPlan    `json:"payment_plan"`
	PaymentMethod *enums.PaymentMethod `json:"payment_method,omitempty"`
	FurnitureIDs  []uuid.UUID          `json:"furniture_ids"`
	DeliveryCity  *string              `json:"delivery_city,omitempty"`
	SalesPerson   *string              `json:"sales_person,omitempty"`
}

// OrderStatusChangedEvent records a lifecycle transition.
type OrderStatusChangedEvent struct {
	OrderID            uuid.UUID         `json:"order_id"`
	CustomerID         uuid.UUID         `json:"customer_id"`
	PreviousStatus     enums.OrderStatus `json:"previous_status"`
	Status             enums.OrderStatus `json:"status"`
	TotalAmount        float64           `json:"total_amount"`
	ActualDeliveryDate *time.Time        `json:"actual_delivery_date,omitempty"`
}

// OrderPaymentAppliedEvent carries the balances after a payment update.
type OrderPaymentAppliedEvent struct {
	OrderID          uuid.UUID           `json:"order_id"`
	CustomerID       uuid.UUID           `json:"customer_id"`
	Amount           float64             `json:"amount"`
	PaymentStatus    enums.PaymentStatus `json:"payment_status"`
	AdvancePayment   float64             `json:"advance_payment"`
	RemainingPayment float64             `json:"remaining_payment"`
	TotalAmount      float64             `json:"total_amount"`
}

// OrderInstallmentsPlannedEvent is emitted when an order moves to installments.
type OrderInstallmentsPlannedEvent struct {
	OrderID          uuid.UUID `json:"order_id"`
	CustomerID       uuid.UUID `json:"customer_id"`
	Months           int       `json:"months"`
	MonthlyAmount    float64   `json:"monthly_amount"`
	RemainingPayment float64   `json:"remaining_payment"`
	TotalAmount      float64   `json:"total_amount"`
}

// CustomerVIPUpgradedEvent is emitted when the VIP sweep promotes a customer.
type CustomerVIPUpgradedEvent struct {
	CustomerID uuid.UUID `json:"customer_id"`
	OrderCount int64     `json:"order_count"`
	UpgradedAt time.Time `json:"upgraded_at"`
}

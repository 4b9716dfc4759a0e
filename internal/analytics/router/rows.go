package router

import (
	"fmt"

	"github.com/totofurniture/furnistore-backend/internal/analytics/types"
	"github.com/totofurniture/furnistore-backend/pkg/outbox/payloads"
)

func orderCreatedRow(env types.Envelope, payload any) (types.SalesEventRow, error) {
	event, ok := payload.(*payloads.OrderCreatedEvent)
	if !ok {
		return types.SalesEventRow{}, unexpectedPayload(env, payload)
	}
	row := baseRow(env, event.CustomerID.String())
	row.OrderID = ptr(event.OrderID.String())
	row.PaymentPlan = ptr(string(event.PaymentPlan))
	if event.PaymentMethod != nil {
		row.PaymentMethod = ptr(string(*event.PaymentMethod))
	}
	row.TotalAmount = ptr(event.TotalAmount)
	row.ItemCount = ptr(int64(len(event.FurnitureIDs)))
	row.DeliveryCity = event.DeliveryCity
	row.SalesPerson = event.SalesPerson
	return row, nil
}

func orderStatusChangedRow(env types.Envelope, payload any) (types.SalesEventRow, error) {
	event, ok := payload.(*payloads.OrderStatusChangedEvent)
	if !ok {
		return types.SalesEventRow{}, unexpectedPayload(env, payload)
	}
	row := baseRow(env, event.CustomerID.String())
	row.OrderID = ptr(event.OrderID.String())
	row.OrderStatus = ptr(string(event.Status))
	row.PreviousStatus = ptr(string(event.PreviousStatus))
	row.TotalAmount = ptr(event.TotalAmount)
	return row, nil
}

func paymentAppliedRow(env types.Envelope, payload any) (types.SalesEventRow, error) {
	event, ok := payload.(*payloads.OrderPaymentAppliedEvent)
	if !ok {
		return types.SalesEventRow{}, unexpectedPayload(env, payload)
	}
	row := baseRow(env, event.CustomerID.String())
	row.OrderID = ptr(event.OrderID.String())
	row.PaymentStatus = ptr(string(event.PaymentStatus))
	row.AmountReceived = ptr(event.Amount)
	row.RemainingPayment = ptr(event.RemainingPayment)
	row.TotalAmount = ptr(event.TotalAmount)
	return row, nil
}

func installmentsPlannedRow(env types.Envelope, payload any) (types.SalesEventRow, error) {
	event, ok := payload.(*payloads.OrderInstallmentsPlannedEvent)
	if !ok {
		return types.SalesEventRow{}, unexpectedPayload(env, payload)
	}
	row := baseRow(env, event.CustomerID.String())
	row.OrderID = ptr(event.OrderID.String())
	row.InstallmentMonths = ptr(int64(event.Months))
	row.MonthlyInstallment = ptr(event.MonthlyAmount)
	row.RemainingPayment = ptr(event.RemainingPayment)
	row.TotalAmount = ptr(event.TotalAmount)
	return row, nil
}

func vipUpgradedRow(env types.Envelope, payload any) (types.SalesEventRow, error) {
	event, ok := payload.(*payloads.CustomerVIPUpgradedEvent)
	if !ok {
		return types.SalesEventRow{}, unexpectedPayload(env, payload)
	}
	return baseRow(env, event.CustomerID.String()), nil
}

func baseRow(env types.Envelope, customerID string) types.SalesEventRow {
	return types.SalesEventRow{
		EventID:    env.EventID,
		EventType:  string(env.EventType),
		OccurredAt: env.OccurredAt,
		CustomerID: customerID,
	}
}

func unexpectedPayload(env types.Envelope, payload any) error {
	return fmt.Errorf("unexpected payload %T for %s", payload, env.EventType)
}

func ptr[T any](v T) *T {
	return &v
}

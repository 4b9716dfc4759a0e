package types

import (
	"time"

	cbigquery "cloud.google.com/go/bigquery"
)

// SalesEventRow mirrors the sales_events BigQuery schema. One row is written
// per order or customer event; columns that do not apply stay NULL.
type SalesEventRow struct {
	EventID            string             `bigquery:"event_id"`
	EventType          string             `bigquery:"event_type"`
	OccurredAt         time.Time          `bigquery:"occurred_at"`
	OrderID            *string            `bigquery:"order_id"`
	CustomerID         string             `bigquery:"customer_id"`
	OrderStatus        *string            `bigquery:"order_status"`
	PreviousStatus     *string            `bigquery:"previous_status"`
	PaymentStatus      *string            `bigquery:"payment_status"`
	PaymentPlan        *string            `bigquery:"payment_plan"`
	PaymentMethod      *string            `bigquery:"payment_method"`
	TotalAmount        *float64           `bigquery:"total_amount"`
	AmountReceived     *float64           `bigquery:"amount_received"`
	RemainingPayment   *float64           `bigquery:"remaining_payment"`
	InstallmentMonths  *int64             `bigquery:"installment_months"`
	MonthlyInstallment *float64           `bigquery:"monthly_installment"`
	ItemCount          *int64             `bigquery:"item_count"`
	DeliveryCity       *string            `bigquery:"delivery_city"`
	SalesPerson        *string            `bigquery:"sales_person"`
	Payload            cbigquery.NullJSON `bigquery:"payload"`
}

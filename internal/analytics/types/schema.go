package types

import cbigquery "cloud.google.com/go/bigquery"

// SalesEventPartitionField is the day-partitioning column of sales_events.
const SalesEventPartitionField = "occurred_at"

// SalesEventSchema is the table schema SalesEventRow is written against.
func SalesEventSchema() cbigquery.Schema {
	required := func(name string, t cbigquery.FieldType) *cbigquery.FieldSchema {
		return &cbigquery.FieldSchema{Name: name, Type: t, Required: true}
	}
	nullable := func(name string, t cbigquery.FieldType) *cbigquery.FieldSchema {
		return &cbigquery.FieldSchema{Name: name, Type: t}
	}
	return cbigquery.Schema{
		required("event_id", cbigquery.StringFieldType),
		required("event_type", cbigquery.StringFieldType),
		required("occurred_at", cbigquery.TimestampFieldType),
		nullable("order_id", cbigquery.StringFieldType),
		required("customer_id", cbigquery.StringFieldType),
		nullable("order_status", cbigquery.StringFieldType),
		nullable("previous_status", cbigquery.StringFieldType),
		nullable("payment_status", cbigquery.StringFieldType),
		nullable("payment_plan", cbigquery.StringFieldType),
		nullable("payment_method", cbigquery.StringFieldType),
		nullable("total_amount", cbigquery.FloatFieldType),
		nullable("amount_received", cbigquery.FloatFieldType),
		nullable("remaining_payment", cbigquery.FloatFieldType),
		nullable("installment_months", cbigquery.IntegerFieldType),
		nullable("monthly_installment", cbigquery.FloatFieldType),
		nullable("item_count", cbigquery.IntegerFieldType),
		nullable("delivery_city", cbigquery.StringFieldType),
		nullable("sales_person", cbigquery.StringFieldType),
		nullable("payload", cbigquery.JSONFieldType),
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/totofurniture/furnistore-backend/pkg/enums"
)

// Order is a customer purchase. TotalAmount always equals the sum of the
// item furniture prices and is rewritten with every item change.
type Order struct {
	ID                       uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID               uuid.UUID            `gorm:"column:customer_id;type:uuid;not null;index"`
	OrderDate                time.Time            `gorm:"column:order_date;not null;index"`
	ExpectedDeliveryDate     *time.Time           `gorm:"column:expected_delivery_date"`
	ActualDeliveryDate       *time.Time           `gorm:"column:actual_delivery_date"`
	InstallationDate         *time.Time           `gorm:"column:installation_date"`
	Status                   enums.OrderStatus    `gorm:"column:status;not null;index"`
	PaymentMethod            *enums.PaymentMethod `gorm:"column:payment_method"`
	PaymentPlan              enums.PaymentPlan    `gorm:"column:payment_plan;not null"`
	PaymentStatus            enums.PaymentStatus  `gorm:"column:payment_status;not null"`
	AdvancePayment           float64              `gorm:"column:advance_payment;type:numeric(12,2);not null"`
	RemainingPayment         float64              `gorm:"column:remaining_payment;type:numeric(12,2);not null"`
	InstallmentMonths        int                  `gorm:"column:installment_months;not null"`
	MonthlyInstallmentAmount float64              `gorm:"column:monthly_installment_amount;type:numeric(12,2);not null"`
	PaymentNotes             *string              `gorm:"column:payment_notes"`
	DeliveryCity             *string              `gorm:"column:delivery_city"`
	DeliveryArea             *string              `gorm:"column:delivery_area"`
	DeliveryAddress          *string              `gorm:"column:delivery_address"`
	DeliveryContactNumber    *string              `gorm:"column:delivery_contact_number"`
	DeliveryCharges          float64              `gorm:"column:delivery_charges;type:numeric(12,2);not null"`
	DeliveryNotes            *string              `gorm:"column:delivery_notes"`
	RequiresAssembly         bool                 `gorm:"column:requires_assembly;not null"`
	RequiresInstallation     bool                 `gorm:"column:requires_installation;not null"`
	InstallationCharges      float64              `gorm:"column:installation_charges;type:numeric(12,2);not null"`
	InstallationNotes        *string              `gorm:"column:installation_notes"`
	SpecialInstructions      *string              `gorm:"column:special_instructions"`
	SalesPerson              *string              `gorm:"column:sales_person"`
	TotalAmount              float64              `gorm:"column:total_amount;type:numeric(12,2);not null"`
	CreatedAt                time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                time.Time            `gorm:"column:updated_at;autoUpdateTime"`

	Customer *Customer   `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem links an order to one furniture record. The same furniture may
// appear on several rows of one order.
type OrderItem struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	FurnitureID uuid.UUID `gorm:"column:furniture_id;type:uuid;not null;index"`
	Position    int       `gorm:"column:position;not null"`

	Furniture *Furniture `gorm:"foreignKey:FurnitureID;constraint:OnDelete:RESTRICT"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// All lists every model in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&Supplier{},
		&Furniture{},
		&Bed{},
		&Chair{},
		&Sofa{},
		&Table{},
		&MiscFurniture{},
		&MiscAttribute{},
		&MiscPriceModifier{},
		&Customer{},
		&Order{},
		&OrderItem{},
		&LedgerEvent{},
		&OutboxEvent{},
		&OutboxDLQ{},
	}
}

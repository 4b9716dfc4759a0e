package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/totofurniture/furnistore-backend/pkg/enums"
)

// LedgerEvent is one append-only row of an order's payment history.
// Amount is what was received with the update; balances are snapshots taken
// after it was applied.
type LedgerEvent struct {
	ID               uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	OrderID          uuid.UUID             `gorm:"column:order_id;type:uuid;not null;index"`
	CustomerID       uuid.UUID             `gorm:"column:customer_id;type:uuid;not null"`
	Type             enums.LedgerEventType `gorm:"column:type;not null"`
	PaymentStatus    enums.PaymentStatus   `gorm:"column:payment_status;not null"`
	Amount           float64               `gorm:"column:amount;type:numeric(12,2);not null"`
	AdvancePayment   float64               `gorm:"column:advance_payment;type:numeric(12,2);not null"`
	RemainingPayment float64               `gorm:"column:remaining_payment;type:numeric(12,2);not null"`
	Metadata         json.RawMessage       `gorm:"column:metadata;type:json"`
	CreatedAt        time.Time             `gorm:"column:created_at;autoCreateTime"`

	Order *Order `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (e *LedgerEvent) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/totofurniture/furnistore-backend/pkg/enums"
)

// Customer owns zero or more orders.
type Customer struct {
	ID                     uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	FirstName              string               `gorm:"column:first_name;not null"`
	LastName               string               `gorm:"column:last_name;not null"`
	PrimaryPhone           *string              `gorm:"column:primary_phone;index"`
	SecondaryPhone         *string              `gorm:"column:secondary_phone"`
	CNICNumber             *string              `gorm:"column:cnic_number"`
	City                   *string              `gorm:"column:city;index"`
	Area                   *string              `gorm:"column:area"`
	CompleteAddress        *string              `gorm:"column:complete_address"`
	RegistrationDate       time.Time            `gorm:"column:registration_date;not null"`
	Status                 enums.CustomerStatus `gorm:"column:status;not null"`
	CustomerType           enums.CustomerType   `gorm:"column:customer_type;not null"`
	PreferredPaymentMethod *enums.PaymentMethod `gorm:"column:preferred_payment_method"`
	MarketingConsent       bool                 `gorm:"column:marketing_consent;not null"`
	SpecialNotes           *string              `gorm:"column:special_notes"`
	ReferralSource         *string              `gorm:"column:referral_source"`
	CreatedAt              time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// FullName joins first and last name with a single space.
func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

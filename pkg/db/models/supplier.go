package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/totofurniture/furnistore-backend/pkg/enums"
)

// Supplier is a vendor the store buys furniture from. List-valued columns are
// stored as JSON so the same model works on Postgres and SQLite.
type Supplier struct {
	ID                     uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	CompanyName            string               `gorm:"column:company_name;not null"`
	OwnerName              *string              `gorm:"column:owner_name"`
	ContactPerson          *string              `gorm:"column:contact_person"`
	Email                  *string              `gorm:"column:email;uniqueIndex"`
	PrimaryPhone           *string              `gorm:"column:primary_phone"`
	SecondaryPhone         *string              `gorm:"column:secondary_phone"`
	City                   *string              `gorm:"column:city;index"`
	Area                   *string              `gorm:"column:area"`
	CompleteAddress        *string              `gorm:"column:complete_address"`
	NTNNumber              *string              `gorm:"column:ntn_number"`
	CNICNumber             *string              `gorm:"column:cnic_number"`
	SupplierType           *enums.SupplierType  `gorm:"column:supplier_type"`
	Status                 enums.SupplierStatus `gorm:"column:status;not null"`
	Specialties            []string             `gorm:"column:specialties;type:jsonb;serializer:json"`
	WoodTypesOffered       []enums.WoodType     `gorm:"column:wood_types_offered;type:jsonb;serializer:json"`
	ServiceCities          []string             `gorm:"column:service_cities;type:jsonb;serializer:json"`
	MinimumOrderAmount     *float64             `gorm:"column:minimum_order_amount;type:numeric(12,2)"`
	StandardLeadTimeDays   *int                 `gorm:"column:standard_lead_time_days"`
	BulkOrderDiscountRate  *float64             `gorm:"column:bulk_order_discount_rate;type:numeric(5,4)"`
	ProvidesCustomWork     bool                 `gorm:"column:provides_custom_work;not null"`
	ProvidesInstallation   bool                 `gorm:"column:provides_installation;not null"`
	PaymentTerms           *string              `gorm:"column:payment_terms"`
	PreferredPaymentMethod *enums.PaymentMethod `gorm:"column:preferred_payment_method"`
	CreatedAt              time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *Supplier) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

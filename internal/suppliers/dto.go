package suppliers

import (
	"time"

	"github.com/google/uuid"

	"github.com/totofurniture/furnistore-backend/pkg/db/models"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
)

type SupplierDTO struct {
	ID                     uuid.UUID            `json:"id"`
	CompanyName            string               `json:"company_name"`
	OwnerName              *string              `json:"owner_name,omitempty"`
	ContactPerson          *string              `json:"contact_person,omitempty"`
	Email                  *string              `json:"email,omitempty"`
	PrimaryPhone           *string              `json:"primary_phone,omitempty"`
	SecondaryPhone         *string              `json:"secondary_phone,omitempty"`
	City                   *string              `json:"city,omitempty"`
	Area                   *string              `json:"area,omitempty"`
	CompleteAddress        *string              `json:"complete_address,omitempty"`
	NTNNumber              *string              `json:"ntn_number,omitempty"`
	CNICNumber             *string              `json:"cnic_number,omitempty"`
	SupplierType           *enums.SupplierType  `json:"supplier_type,omitempty"`
	Status                 enums.SupplierStatus `json:"status"`
	Specialties            []string             `json:"specialties"`
	WoodTypesOffered       []enums.WoodType     `json:"wood_types_offered"`
	ServiceCities          []string             `json:"service_cities"`
	MinimumOrderAmount     *float64             `json:"minimum_order_amount,omitempty"`
	StandardLeadTimeDays   *int                 `json:"standard_lead_time_days,omitempty"`
	BulkOrderDiscountRate  *float64             `json:"bulk_order_discount_rate,omitempty"`
	ProvidesCustomWork     bool                 `json:"provides_custom_work"`
	ProvidesInstallation   bool                 `json:"provides_installation"`
	PaymentTerms           *string              `json:"payment_terms,omitempty"`
	PreferredPaymentMethod *enums.PaymentMethod `json:"preferred_payment_method,omitempty"`
	CreatedAt              time.Time            `json:"created_at"`
	UpdatedAt              time.Time            `json:"updated_at"`
}

type ScoreDTO struct {
	SupplierID       uuid.UUID `json:"supplier_id"`
	ReliabilityScore int       `json:"reliability_score"`
}

type OrderTotalDTO struct {
	SupplierID uuid.UUID `json:"supplier_id"`
	ItemCount  int       `json:"item_count"`
	Total      string    `json:"total"`
}

func NewSupplierDTO(s *models.Supplier) *SupplierDTO {
	return &SupplierDTO{
		ID:                     s.ID,
		CompanyName:            s.CompanyName,
		OwnerName:              s.OwnerName,
		ContactPerson:          s.ContactPerson,
		Email:                  s.Email,
		PrimaryPhone:           s.PrimaryPhone,
		SecondaryPhone:         s.SecondaryPhone,
		City:                   s.City,
		Area:                   s.Area,
		CompleteAddress:        s.CompleteAddress,
		NTNNumber:              s.NTNNumber,
		CNICNumber:             s.CNICNumber,
		SupplierType:           s.SupplierType,
		Status:                 s.Status,
		Specialties:            append([]string{}, s.Specialties...),
		WoodTypesOffered:       append([]enums.WoodType{}, s.WoodTypesOffered...),
		ServiceCities:          append([]string{}, s.ServiceCities...),
		MinimumOrderAmount:     s.MinimumOrderAmount,
		StandardLeadTimeDays:   s.StandardLeadTimeDays,
		BulkOrderDiscountRate:  s.BulkOrderDiscountRate,
		ProvidesCustomWork:     s.ProvidesCustomWork,
		ProvidesInstallation:   s.ProvidesInstallation,
		PaymentTerms:           s.PaymentTerms,
		PreferredPaymentMethod: s.PreferredPaymentMethod,
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
	}
}

func toDTOs(rows []models.Supplier) []SupplierDTO {
	out := make([]SupplierDTO, len(rows))
	for i := range rows {
		out[i] = *NewSupplierDTO(&rows[i])
	}
	return out
}

package customers

import (
	"time"

	"github.com/google/uuid"

	"github.com/totofurniture/furnistore-backend/pkg/db/models"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
)

type CustomerDTO struct {
	ID                     uuid.UUID            `json:"id"`
	FirstName              string               `json:"first_name"`
	LastName               string               `json:"last_name"`
	FullName               string               `json:"full_name"`
	PrimaryPhone           *string              `json:"primary_phone,omitempty"`
	SecondaryPhone         *string              `json:"secondary_phone,omitempty"`
	CNICNumber             *string              `json:"cnic_number,omitempty"`
	City                   *string              `json:"city,omitempty"`
	Area                   *string              `json:"area,omitempty"`
	CompleteAddress        *string              `json:"complete_address,omitempty"`
	RegistrationDate       time.Time            `json:"registration_date"`
	Status                 enums.CustomerStatus `json:"status"`
	CustomerType           enums.CustomerType   `json:"customer_type"`
	PreferredPaymentMethod *enums.PaymentMethod `json:"preferred_payment_method,omitempty"`
	MarketingConsent       bool                 `json:"marketing_consent"`
	SpecialNotes           *string              `json:"special_notes,omitempty"`
	ReferralSource         *string              `json:"referral_source,omitempty"`
}

type LoyaltyDTO struct {
	CustomerID   uuid.UUID `json:"customer_id"`
	OrderCount   int64     `json:"order_count"`
	LoyaltyScore int       `json:"loyalty_score"`
}

type SweepResult struct {
	Updated int `json:"updated"`
}

func NewCustomerDTO(c *models.Customer) *CustomerDTO {
	return &CustomerDTO{
		ID:                     c.ID,
		FirstName:              c.FirstName,
		LastName:               c.LastName,
		FullName:               c.FullName(),
		PrimaryPhone:           c.PrimaryPhone,
		SecondaryPhone:         c.SecondaryPhone,
		CNICNumber:             c.CNICNumber,
		City:                   c.City,
		Area:                   c.Area,
		CompleteAddress:        c.CompleteAddress,
		RegistrationDate:       c.RegistrationDate,
		Status:                 c.Status,
		CustomerType:           c.CustomerType,
		PreferredPaymentMethod: c.PreferredPaymentMethod,
		MarketingConsent:       c.MarketingConsent,
		SpecialNotes:           c.SpecialNotes,
		ReferralSource:         c.ReferralSource,
	}
}

func toDTOs(rows []models.Customer) []CustomerDTO {
	out := make([]CustomerDTO, len(rows))
	for i := range rows {
		out[i] = *NewCustomerDTO(&rows[i])
	}
	return out
}

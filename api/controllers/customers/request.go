package customers

import (
	"net/http"

	"github.com/totofurniture/furnistore-backend/api/validators"
	customersvc "github.com/totofurniture/furnistore-backend/internal/customers"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
	pkgerrors "github.com/totofurniture/furnistore-backend/pkg/errors"
)

type customerRequest struct {
	FirstName              string  `json:"first_name" validate:"required,max=100"`
	LastName               string  `json:"last_name" validate:"required,max=100"`
	PrimaryPhone           *string `json:"primary_phone,omitempty" validate:"omitempty,pkphone"`
	SecondaryPhone         *string `json:"secondary_phone,omitempty" validate:"omitempty,pkphone"`
	CNICNumber             *string `json:"cnic_number,omitempty" validate:"omitempty,cnic"`
	City                   *string `json:"city,omitempty"`
	Area                   *string `json:"area,omitempty"`
	CompleteAddress        *string `json:"complete_address,omitempty"`
	Status                 *string `json:"status,omitempty"`
	CustomerType           *string `json:"customer_type,omitempty"`
	PreferredPaymentMethod *string `json:"preferred_payment_method,omitempty"`
	MarketingConsent       bool    `json:"marketing_consent"`
	SpecialNotes           *string `json:"special_notes,omitempty"`
	ReferralSource         *string `json:"referral_source,omitempty"`
}

func (req customerRequest) toInput() (customersvc.CustomerInput, error) {
	input := customersvc.CustomerInput{
		FirstName:        validators.SanitizeString(req.FirstName, 100),
		LastName:         validators.SanitizeString(req.LastName, 100),
		PrimaryPhone:     validators.SanitizeOptional(req.PrimaryPhone, 16),
		SecondaryPhone:   validators.SanitizeOptional(req.SecondaryPhone, 16),
		CNICNumber:       validators.SanitizeOptional(req.CNICNumber, 16),
		City:             validators.SanitizeOptional(req.City, 100),
		Area:             validators.SanitizeOptional(req.Area, 255),
		CompleteAddress:  validators.SanitizeOptional(req.CompleteAddress, 1000),
		MarketingConsent: req.MarketingConsent,
		SpecialNotes:     validators.SanitizeOptional(req.SpecialNotes, 2000),
		ReferralSource:   validators.SanitizeOptional(req.ReferralSource, 100),
	}
	if req.Status != nil && *req.Status != "" {
		status, err := enums.ParseCustomerStatus(*req.Status)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = status
	}
	if req.CustomerType != nil && *req.CustomerType != "" {
		ct, err := enums.ParseCustomerType(*req.CustomerType)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer_type")
		}
		input.CustomerType = ct
	}
	if req.PreferredPaymentMethod != nil && *req.PreferredPaymentMethod != "" {
		pm, err := enums.ParsePaymentMethod(*req.PreferredPaymentMethod)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid preferred_payment_method")
		}
		input.PreferredPaymentMethod = &pm
	}
	return input, nil
}

func parseFilter(r *http.Request) (customersvc.Filter, error) {
	filter := customersvc.Filter{
		FirstNameContains: validators.QueryString(r, "first_name"),
		LastNameContains:  validators.QueryString(r, "last_name"),
		FullNameContains:  validators.QueryString(r, "name"),
		Phone:             validators.QueryString(r, "phone"),
		CNICNumber:        validators.QueryString(r, "cnic_number"),
		City:              validators.QueryString(r, "city"),
		AreaContains:      validators.QueryString(r, "area"),
		ReferralSource:    validators.QueryString(r, "referral_source"),
	}
	if raw := validators.QueryString(r, "status"); raw != "" {
		status, err := enums.ParseCustomerStatus(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		filter.Status = &status
	}
	if raw := validators.QueryString(r, "type"); raw != "" {
		ct, err := enums.ParseCustomerType(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type")
		}
		filter.Type = &ct
	}
	if raw := validators.QueryString(r, "payment_method"); raw != "" {
		pm, err := enums.ParsePaymentMethod(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment_method")
		}
		filter.PreferredPayment = &pm
	}

	var err error
	if filter.MarketingConsent, err = validators.OptionalQueryBool(r, "marketing_consent"); err != nil {
		return filter, err
	}
	if filter.RegisteredFrom, err = validators.OptionalQueryTime(r, "registered_from"); err != nil {
		return filter, err
	}
	if filter.RegisteredTo, err = validators.OptionalQueryTime(r, "registered_to"); err != nil {
		return filter, err
	}
	if filter.MinOrders, err = validators.OptionalQueryInt(r, "min_orders"); err != nil {
		return filter, err
	}
	noOrders, err := validators.OptionalQueryBool(r, "no_orders")
	if err != nil {
		return filter, err
	}
	filter.NoOrders = noOrders != nil && *noOrders
	return filter, nil
}

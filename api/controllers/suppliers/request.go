package suppliers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/totofurniture/furnistore-backend/api/validators"
	suppliersvc "github.com/totofurniture/furnistore-backend/internal/suppliers"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
	pkgerrors "github.com/totofurniture/furnistore-backend/pkg/errors"
)

const maxTextLen = 255

type supplierRequest struct {
	CompanyName            string   `json:"company_name" validate:"required,max=255"`
	OwnerName              *string  `json:"owner_name,omitempty"`
	ContactPerson          *string  `json:"contact_person,omitempty"`
	Email                  *string  `json:"email,omitempty" validate:"omitempty,email"`
	PrimaryPhone           *string  `json:"primary_phone,omitempty" validate:"omitempty,pkphone"`
	SecondaryPhone         *string  `json:"secondary_phone,omitempty" validate:"omitempty,pkphone"`
	City                   *string  `json:"city,omitempty"`
	Area                   *string  `json:"area,omitempty"`
	CompleteAddress        *string  `json:"complete_address,omitempty"`
	NTNNumber              *string  `json:"ntn_number,omitempty"`
	CNICNumber             *string  `json:"cnic_number,omitempty" validate:"omitempty,cnic"`
	SupplierType           *string  `json:"supplier_type,omitempty"`
	Status                 *string  `json:"status,omitempty"`
	Specialties            []string `json:"specialties,omitempty"`
	WoodTypesOffered       []string `json:"wood_types_offered,omitempty"`
	ServiceCities          []string `json:"service_cities,omitempty"`
	MinimumOrderAmount     *float64 `json:"minimum_order_amount,omitempty" validate:"omitempty,gte=0"`
	StandardLeadTimeDays   *int     `json:"standard_lead_time_days,omitempty" validate:"omitempty,gte=0"`
	BulkOrderDiscountRate  *float64 `json:"bulk_order_discount_rate,omitempty" validate:"omitempty,gte=0,lt=1"`
	ProvidesCustomWork     bool     `json:"provides_custom_work"`
	ProvidesInstallation   bool     `json:"provides_installation"`
	PaymentTerms           *string  `json:"payment_terms,omitempty"`
	PreferredPaymentMethod *string  `json:"preferred_payment_method,omitempty"`
}

func (req supplierRequest) toInput() (suppliersvc.SupplierInput, error) {
	input := suppliersvc.SupplierInput{
		CompanyName:           validators.SanitizeString(req.CompanyName, maxTextLen),
		OwnerName:             validators.SanitizeOptional(req.OwnerName, maxTextLen),
		ContactPerson:         validators.SanitizeOptional(req.ContactPerson, maxTextLen),
		Email:                 validators.SanitizeOptional(req.Email, maxTextLen),
		PrimaryPhone:          validators.SanitizeOptional(req.PrimaryPhone, 16),
		SecondaryPhone:        validators.SanitizeOptional(req.SecondaryPhone, 16),
		City:                  validators.SanitizeOptional(req.City, 100),
		Area:                  validators.SanitizeOptional(req.Area, maxTextLen),
		CompleteAddress:       validators.SanitizeOptional(req.CompleteAddress, 1000),
		NTNNumber:             validators.SanitizeOptional(req.NTNNumber, 32),
		CNICNumber:            validators.SanitizeOptional(req.CNICNumber, 16),
		Specialties:           req.Specialties,
		ServiceCities:         req.ServiceCities,
		MinimumOrderAmount:    req.MinimumOrderAmount,
		StandardLeadTimeDays:  req.StandardLeadTimeDays,
		BulkOrderDiscountRate: req.BulkOrderDiscountRate,
		ProvidesCustomWork:    req.ProvidesCustomWork,
		ProvidesInstallation:  req.ProvidesInstallation,
		PaymentTerms:          validators.SanitizeOptional(req.PaymentTerms, maxTextLen),
	}
	if req.SupplierType != nil && *req.SupplierType != "" {
		st, err := enums.ParseSupplierType(*req.SupplierType)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supplier_type")
		}
		input.SupplierType = &st
	}
	if req.Status != nil && *req.Status != "" {
		status, err := enums.ParseSupplierStatus(*req.Status)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = status
	}
	if req.PreferredPaymentMethod != nil && *req.PreferredPaymentMethod != "" {
		pm, err := enums.ParsePaymentMethod(*req.PreferredPaymentMethod)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid preferred_payment_method")
		}
		input.PreferredPaymentMethod = &pm
	}
	for _, raw := range req.WoodTypesOffered {
		wood, err := enums.ParseWoodType(raw)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid wood_types_offered")
		}
		input.WoodTypesOffered = append(input.WoodTypesOffered, wood)
	}
	return input, nil
}

type idsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

type orderTotalRequest struct {
	FurnitureIDs []string `json:"furniture_ids" validate:"required,min=1,dive,uuid"`
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseFilter(r *http.Request) (suppliersvc.Filter, error) {
	filter := suppliersvc.Filter{
		CompanyContains:   validators.QueryString(r, "company"),
		OwnerContains:     validators.QueryString(r, "owner"),
		ContactContains:   validators.QueryString(r, "contact"),
		Email:             validators.QueryString(r, "email"),
		Phone:             validators.QueryString(r, "phone"),
		NTNNumber:         validators.QueryString(r, "ntn_number"),
		CNICNumber:        validators.QueryString(r, "cnic_number"),
		City:              validators.QueryString(r, "city"),
		AreaContains:      validators.QueryString(r, "area"),
		SpecialtyContains: validators.QueryString(r, "specialty"),
		ServiceCity:       validators.QueryString(r, "service_city"),
	}
	if raw := validators.QueryString(r, "type"); raw != "" {
		st, err := enums.ParseSupplierType(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type")
		}
		filter.Type = &st
	}
	if raw := validators.QueryString(r, "status"); raw != "" {
		status, err := enums.ParseSupplierStatus(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		filter.Status = &status
	}
	if raw := validators.QueryString(r, "payment_method"); raw != "" {
		pm, err := enums.ParsePaymentMethod(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment_method")
		}
		filter.PreferredPayment = &pm
	}
	if raw := validators.QueryString(r, "wood_type"); raw != "" {
		wood, err := enums.ParseWoodType(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid wood_type")
		}
		filter.WoodType = &wood
	}

	var err error
	if filter.MaxMinimumOrderAmount, err = validators.OptionalQueryFloat(r, "max_minimum_order"); err != nil {
		return filter, err
	}
	if filter.MaxLeadTimeDays, err = validators.OptionalQueryInt(r, "max_lead_time_days"); err != nil {
		return filter, err
	}
	if filter.MinBulkDiscountRate, err = validators.OptionalQueryFloat(r, "min_bulk_discount"); err != nil {
		return filter, err
	}
	if filter.ProvidesCustomWork, err = validators.OptionalQueryBool(r, "custom_work"); err != nil {
		return filter, err
	}
	if filter.ProvidesInstallation, err = validators.OptionalQueryBool(r, "installation"); err != nil {
		return filter, err
	}
	return filter, nil
}

package orders

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/totofurniture/furnistore-backend/api/validators"
	ordersvc "github.com/totofurniture/furnistore-backend/internal/orders"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
	pkgerrors "github.com/totofurniture/furnistore-backend/pkg/errors"
)

type detailsRequest struct {
	ExpectedDeliveryDate  *time.Time `json:"expected_delivery_date,omitempty"`
	InstallationDate      *time.Time `json:"installation_date,omitempty"`
	PaymentMethod         *string    `json:"payment_method,omitempty"`
	PaymentNotes          *string    `json:"payment_notes,omitempty"`
	DeliveryCity          *string    `json:"delivery_city,omitempty"`
	DeliveryArea          *string    `json:"delivery_area,omitempty"`
	DeliveryAddress       *string    `json:"delivery_address,omitempty"`
	DeliveryContactNumber *string    `json:"delivery_contact_number,omitempty" validate:"omitempty,pkphone"`
	DeliveryCharges       float64    `json:"delivery_charges" validate:"gte=0"`
	DeliveryNotes         *string    `json:"delivery_notes,omitempty"`
	RequiresAssembly      bool       `json:"requires_assembly"`
	RequiresInstallation  bool       `json:"requires_installation"`
	InstallationCharges   float64    `json:"installation_charges" validate:"gte=0"`
	InstallationNotes     *string    `json:"installation_notes,omitempty"`
	SpecialInstructions   *string    `json:"special_instructions,omitempty"`
	SalesPerson           *string    `json:"sales_person,omitempty"`
}

type createOrderRequest struct {
	CustomerID   uuid.UUID   `json:"customer_id" validate:"required"`
	FurnitureIDs []uuid.UUID `json:"furniture_ids"`
	PaymentPlan  string      `json:"payment_plan,omitempty"`
	detailsRequest
}

type itemRequest struct {
	FurnitureID uuid.UUID `json:"furniture_id" validate:"required"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type paymentRequest struct {
	Status string  `json:"status" validate:"required"`
	Amount float64 `json:"amount" validate:"gte=0"`
}

type installmentRequest struct {
	Months int `json:"months" validate:"required,gt=0"`
}

func (req detailsRequest) toDetails() (ordersvc.Details, error) {
	details := ordersvc.Details{
		ExpectedDeliveryDate:  req.ExpectedDeliveryDate,
		InstallationDate:      req.InstallationDate,
		PaymentNotes:          validators.SanitizeOptional(req.PaymentNotes, 2000),
		DeliveryCity:          validators.SanitizeOptional(req.DeliveryCity, 100),
		DeliveryArea:          validators.SanitizeOptional(req.DeliveryArea, 255),
		DeliveryAddress:       validators.SanitizeOptional(req.DeliveryAddress, 1000),
		DeliveryContactNumber: validators.SanitizeOptional(req.DeliveryContactNumber, 16),
		DeliveryCharges:       req.DeliveryCharges,
		DeliveryNotes:         validators.SanitizeOptional(req.DeliveryNotes, 2000),
		RequiresAssembly:      req.RequiresAssembly,
		RequiresInstallation:  req.RequiresInstallation,
		InstallationCharges:   req.InstallationCharges,
		InstallationNotes:     validators.SanitizeOptional(req.InstallationNotes, 2000),
		SpecialInstructions:   validators.SanitizeOptional(req.SpecialInstructions, 2000),
		SalesPerson:           validators.SanitizeOptional(req.SalesPerson, 100),
	}
	if req.PaymentMethod != nil && *req.PaymentMethod != "" {
		pm, err := enums.ParsePaymentMethod(*req.PaymentMethod)
		if err != nil {
			return details, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment_method")
		}
		details.PaymentMethod = &pm
	}
	return details, nil
}

func (req createOrderRequest) toInput() (ordersvc.CreateInput, error) {
	details, err := req.detailsRequest.toDetails()
	if err != nil {
		return ordersvc.CreateInput{}, err
	}
	input := ordersvc.CreateInput{
		CustomerID:   req.CustomerID,
		FurnitureIDs: req.FurnitureIDs,
		Details:      details,
	}
	if req.PaymentPlan != "" {
		plan, err := enums.ParsePaymentPlan(req.PaymentPlan)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment_plan")
		}
		input.PaymentPlan = plan
	}
	return input, nil
}

func (req paymentRequest) toInput() (ordersvc.PaymentInput, error) {
	status, err := enums.ParsePaymentStatus(req.Status)
	if err != nil {
		return ordersvc.PaymentInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
	}
	return ordersvc.PaymentInput{Status: status, Amount: req.Amount}, nil
}

func parseFilter(r *http.Request) (ordersvc.Filter, error) {
	filter := ordersvc.Filter{
		DeliveryCity:         validators.QueryString(r, "delivery_city"),
		DeliveryAreaContains: validators.QueryString(r, "delivery_area"),
		SalesPersonContains:  validators.QueryString(r, "sales_person"),
	}
	var err error
	if filter.CustomerID, err = validators.OptionalQueryUUID(r, "customer_id"); err != nil {
		return filter, err
	}
	if filter.ContainsFurniture, err = validators.OptionalQueryUUID(r, "furniture_id"); err != nil {
		return filter, err
	}
	if raw := validators.QueryString(r, "status"); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
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
		filter.PaymentMethod = &pm
	}
	if raw := validators.QueryString(r, "payment_plan"); raw != "" {
		plan, err := enums.ParsePaymentPlan(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment_plan")
		}
		filter.PaymentPlan = &plan
	}
	if raw := validators.QueryString(r, "payment_status"); raw != "" {
		ps, err := enums.ParsePaymentStatus(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment_status")
		}
		filter.PaymentStatuses = []enums.PaymentStatus{ps}
	}
	if filter.OrderedAfter, err = validators.OptionalQueryTime(r, "ordered_from"); err != nil {
		return filter, err
	}
	if filter.OrderedBefore, err = validators.OptionalQueryTime(r, "ordered_to"); err != nil {
		return filter, err
	}
	if filter.ExpectedDeliveryAfter, err = validators.OptionalQueryTime(r, "expected_from"); err != nil {
		return filter, err
	}
	if filter.ExpectedDeliveryBefore, err = validators.OptionalQueryTime(r, "expected_to"); err != nil {
		return filter, err
	}
	if filter.DeliveredFrom, err = validators.OptionalQueryTime(r, "delivered_from"); err != nil {
		return filter, err
	}
	if filter.DeliveredTo, err = validators.OptionalQueryTime(r, "delivered_to"); err != nil {
		return filter, err
	}
	if filter.RequiresAssembly, err = validators.OptionalQueryBool(r, "requires_assembly"); err != nil {
		return filter, err
	}
	if filter.RequiresInstallation, err = validators.OptionalQueryBool(r, "requires_installation"); err != nil {
		return filter, err
	}
	if filter.TotalAbove, err = validators.OptionalQueryFloat(r, "total_above"); err != nil {
		return filter, err
	}
	if filter.TotalMin, err = validators.OptionalQueryFloat(r, "min_total"); err != nil {
		return filter, err
	}
	if filter.TotalMax, err = validators.OptionalQueryFloat(r, "max_total"); err != nil {
		return filter, err
	}
	return filter, nil
}

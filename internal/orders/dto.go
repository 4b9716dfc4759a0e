package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/totofurniture/furnistore-backend/pkg/db/models"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
)

// OrderItemDTO is one row of an order as returned to clients.
type OrderItemDTO struct {
	ID          uuid.UUID           `json:"id"`
	FurnitureID uuid.UUID           `json:"furniture_id"`
	Name        string              `json:"name,omitempty"`
	Kind        enums.FurnitureKind `json:"kind,omitempty"`
	Price       float64             `json:"price"`
}

// OrderDTO exposes the order with its ledger fields.
type OrderDTO struct {
	ID                       uuid.UUID            `json:"id"`
	CustomerID               uuid.UUID            `json:"customer_id"`
	OrderDate                time.Time            `json:"order_date"`
	ExpectedDeliveryDate     *time.Time           `json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate       *time.Time           `json:"actual_delivery_date,omitempty"`
	InstallationDate         *time.Time           `json:"installation_date,omitempty"`
	Status                   enums.OrderStatus    `json:"status"`
	PaymentMethod            *enums.PaymentMethod `json:"payment_method,omitempty"`
	PaymentPlan              enums.PaymentPlan    `json:"payment_plan"`
	PaymentStatus            enums.PaymentStatus  `json:"payment_status"`
	AdvancePayment           float64              `json:"advance_payment"`
	RemainingPayment         float64              `json:"remaining_payment"`
	InstallmentMonths        int                  `json:"installment_months"`
	MonthlyInstallmentAmount float64              `json:"monthly_installment_amount"`
	PaymentNotes             *string              `json:"payment_notes,omitempty"`
	DeliveryCity             *string              `json:"delivery_city,omitempty"`
	DeliveryArea             *string              `json:"delivery_area,omitempty"`
	DeliveryAddress          *string              `json:"delivery_address,omitempty"`
	DeliveryContactNumber    *string              `json:"delivery_contact_number,omitempty"`
	DeliveryCharges          float64              `json:"delivery_charges"`
	DeliveryNotes            *string              `json:"delivery_notes,omitempty"`
	RequiresAssembly         bool                 `json:"requires_assembly"`
	RequiresInstallation     bool                 `json:"requires_installation"`
	InstallationCharges      float64              `json:"installation_charges"`
	InstallationNotes        *string              `json:"installation_notes,omitempty"`
	SpecialInstructions      *string              `json:"special_instructions,omitempty"`
	SalesPerson              *string              `json:"sales_person,omitempty"`
	TotalAmount              float64              `json:"total_amount"`
	Items                    []OrderItemDTO       `json:"items"`
	CreatedAt                time.Time            `json:"created_at"`
	UpdatedAt                time.Time            `json:"updated_at"`
}

// OrderList wraps a page of orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

func NewOrderDTO(o *models.Order) *OrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		dto := OrderItemDTO{ID: item.ID, FurnitureID: item.FurnitureID}
		if item.Furniture != nil {
			dto.Name = item.Furniture.Name
			dto.Kind = item.Furniture.Kind
			dto.Price = item.Furniture.Price
		}
		items = append(items, dto)
	}
	return &OrderDTO{
		ID:                       o.ID,
		CustomerID:               o.CustomerID,
		OrderDate:                o.OrderDate,
		ExpectedDeliveryDate:     o.ExpectedDeliveryDate,
		ActualDeliveryDate:       o.ActualDeliveryDate,
		InstallationDate:         o.InstallationDate,
		Status:                   o.Status,
		PaymentMethod:            o.PaymentMethod,
		PaymentPlan:              o.PaymentPlan,
		PaymentStatus:            o.PaymentStatus,
		AdvancePayment:           o.AdvancePayment,
		RemainingPayment:         o.RemainingPayment,
		InstallmentMonths:        o.InstallmentMonths,
		MonthlyInstallmentAmount: o.MonthlyInstallmentAmount,
		PaymentNotes:             o.PaymentNotes,
		DeliveryCity:             o.DeliveryCity,
		DeliveryArea:             o.DeliveryArea,
		DeliveryAddress:          o.DeliveryAddress,
		DeliveryContactNumber:    o.DeliveryContactNumber,
		DeliveryCharges:          o.DeliveryCharges,
		DeliveryNotes:            o.DeliveryNotes,
		RequiresAssembly:         o.RequiresAssembly,
		RequiresInstallation:     o.RequiresInstallation,
		InstallationCharges:      o.InstallationCharges,
		InstallationNotes:        o.InstallationNotes,
		SpecialInstructions:      o.SpecialInstructions,
		SalesPerson:              o.SalesPerson,
		TotalAmount:              o.TotalAmount,
		Items:                    items,
		CreatedAt:                o.CreatedAt,
		UpdatedAt:                o.UpdatedAt,
	}
}

func toDTOs(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, len(rows))
	for i := range rows {
		out[i] = *NewOrderDTO(&rows[i])
	}
	return out
}

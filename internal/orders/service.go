package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/totofurniture/furnistore-backend/internal/ledger"
	"github.com/totofurniture/furnistore-backend/pkg/db"
	"github.com/totofurniture/furnistore-backend/pkg/db/models"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
	pkgerrors "github.com/totofurniture/furnistore-backend/pkg/errors"
	"github.com/totofurniture/furnistore-backend/pkg/logger"
	"github.com/totofurniture/furnistore-backend/pkg/outbox"
	"github.com/totofurniture/furnistore-backend/pkg/outbox/payloads"
	"github.com/totofurniture/furnistore-backend/pkg/pagination"
)

// Service defines order operations: item changes, status and payments.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*OrderDTO, error)
	Update(ctx context.Context, id uuid.UUID, input Details) (*OrderDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	Find(ctx context.Context, filter Filter) ([]OrderDTO, error)
	List(ctx context.Context, input ListInput) (*OrderList, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddItem(ctx context.Context, id, furnitureID uuid.UUID) (*OrderDTO, error)
	RemoveItem(ctx context.Context, id, furnitureID uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
	ApplyPayment(ctx context.Context, id uuid.UUID, input PaymentInput) (*OrderDTO, error)
	PlanInstallments(ctx context.Context, id uuid.UUID, months int) (*OrderDTO, error)
	OverdueDeliveries(ctx context.Context) ([]OrderDTO, error)
}

// Details are the free-form order fields editable after creation.
type Details struct {
	ExpectedDeliveryDate  *time.Time
	InstallationDate      *time.Time
	PaymentMethod         *enums.PaymentMethod
	PaymentNotes          *string
	DeliveryCity          *string
	DeliveryArea          *string
	DeliveryAddress       *string
	DeliveryContactNumber *string
	DeliveryCharges       float64
	DeliveryNotes         *string
	RequiresAssembly      bool
	RequiresInstallation  bool
	InstallationCharges   float64
	InstallationNotes     *string
	SpecialInstructions   *string
	SalesPerson           *string
}

// CreateInput opens an order for a customer. The same furniture id may be
// listed more than once.
type CreateInput struct {
	CustomerID   uuid.UUID
	FurnitureIDs []uuid.UUID
	PaymentPlan  enums.PaymentPlan
	Details
}

type PaymentInput struct {
	Status enums.PaymentStatus
	Amount float64
}

type ListInput struct {
	Filter     Filter
	Pagination pagination.Params
}

// ServiceParams wires the order service. Events and Ledger are optional;
// when set, they are written in the same transaction as the order.
type ServiceParams struct {
	Repo      Repository
	Tx        txRunner
	Customers customerLookup
	Furniture furnitureLookup
	Events    outbox.Emitter
	Ledger    ledgerRecorder
	Logger    *logger.Logger
	Now       func() time.Time
}

type service struct {
	repo      Repository
	tx        txRunner
	customers customerLookup
	furniture furnitureLookup
	events    outbox.Emitter
	ledger    ledgerRecorder
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds an order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Customers == nil {
		return nil, fmt.Errorf("customer lookup required")
	}
	if params.Furniture == nil {
		return nil, fmt.Errorf("furniture lookup required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:      params.Repo,
		tx:        params.Tx,
		customers: params.Customers,
		furniture: params.Furniture,
		events:    params.Events,
		ledger:    params.Ledger,
		logg:      params.Logger,
		now:       now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*OrderDTO, error) {
	if input.PaymentPlan != "" && !input.PaymentPlan.IsValid() {
		return nil, pkgerrors.Invalid("payment_plan", "unknown payment plan")
	}
	if err := validateDetails(input.Details); err != nil {
		return nil, err
	}
	customer, err := s.customers.FindByID(ctx, input.CustomerID)
	if err != nil && !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}
	if customer == nil {
		return nil, pkgerrors.Invalid("customer_id", fmt.Sprintf("customer %s not found", input.CustomerID))
	}
	pieces, err := s.loadFurniture(ctx, input.FurnitureIDs)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		CustomerID:    customer.ID,
		OrderDate:     s.now().UTC(),
		Status:        enums.OrderStatusPending,
		PaymentPlan:   input.PaymentPlan,
		PaymentStatus: enums.PaymentStatusPending,
	}
	if order.PaymentPlan == "" {
		order.PaymentPlan = enums.PaymentPlanFullPayment
	}
	applyDetails(order, input.Details)
	order.ID = uuid.New()
	for _, f := range pieces {
		AddItem(order, f)
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		return s.emit(ctx, tx, enums.EventOrderCreated, order, payloads.OrderCreatedEvent{
			OrderID:       order.ID,
			CustomerID:    order.CustomerID,
			OrderDate:     order.OrderDate,
			TotalAmount:   order.TotalAmount,
			PaymentPlan:   order.PaymentPlan,
			PaymentMethod: order.PaymentMethod,
			FurnitureIDs:  itemFurnitureIDs(order),
			DeliveryCity:  order.DeliveryCity,
			SalesPerson:   order.SalesPerson,
		})
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "order created")
	return NewOrderDTO(order), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input Details) (*OrderDTO, error) {
	if err := validateDetails(input); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(_ *gorm.DB, order *models.Order) error {
		applyDetails(order, input)
		return nil
	})
}

// Get returns nil without error when the order does not exist.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	return NewOrderDTO(order), nil
}

func (s *service) Find(ctx context.Context, filter Filter) ([]OrderDTO, error) {
	rows, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find orders")
	}
	return toDTOs(rows), nil
}

func (s *service) OverdueDeliveries(ctx context.Context) ([]OrderDTO, error) {
	return s.Find(ctx, OverdueDeliveries(s.now()))
}

func (s *service) List(ctx context.Context, input ListInput) (*OrderList, error) {
	cursor, err := input.Pagination.Decode()
	if err != nil {
		return nil, err
	}
	query := listQuery{filter: input.Filter, limit: input.Pagination.Fetch(), cursor: cursor}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}

	rows, next := pagination.Trim(rows, input.Pagination.Size(), pageKey)
	return &OrderList{Orders: toDTOs(rows), NextCursor: next}, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete order")
		}
		return nil
	})
}

// AddItem appends one furniture row. The new item and the total are written
// in one transaction.
func (s *service) AddItem(ctx context.Context, id, furnitureID uuid.UUID) (*OrderDTO, error) {
	pieces, err := s.loadFurniture(ctx, []uuid.UUID{furnitureID})
	if err != nil {
		return nil, err
	}
	var out *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		order, err := s.loadForUpdate(ctx, txRepo, id)
		if err != nil {
			return err
		}
		item := AddItem(order, pieces[0])
		if err := txRepo.CreateItems(ctx, []models.OrderItem{*item}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order item")
		}
		if err := txRepo.Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order total")
		}
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewOrderDTO(out), nil
}

// RemoveItem drops one row for the furniture. Removing furniture that is not
// on the order leaves it unchanged.
func (s *service) RemoveItem(ctx context.Context, id, furnitureID uuid.UUID) (*OrderDTO, error) {
	var out *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		order, err := s.loadForUpdate(ctx, txRepo, id)
		if err != nil {
			return err
		}
		out = order
		removed := RemoveItem(order, furnitureID)
		if removed == nil {
			return nil
		}
		if err := txRepo.DeleteItem(ctx, removed.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete order item")
		}
		if err := txRepo.Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order total")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewOrderDTO(out), nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.Invalid("status", "unknown order status")
	}
	return s.mutate(ctx, id, func(tx *gorm.DB, order *models.Order) error {
		previous := order.Status
		TransitionStatus(order, status, s.now())
		if previous == status {
			return nil
		}
		return s.emit(ctx, tx, enums.EventOrderStatusChanged, order, payloads.OrderStatusChangedEvent{
			OrderID:            order.ID,
			CustomerID:         order.CustomerID,
			PreviousStatus:     previous,
			Status:             order.Status,
			TotalAmount:        order.TotalAmount,
			ActualDeliveryDate: order.ActualDeliveryDate,
		})
	})
}

func (s *service) ApplyPayment(ctx context.Context, id uuid.UUID, input PaymentInput) (*OrderDTO, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.Invalid("payment_status", "unknown payment status")
	}
	if input.Amount < 0 {
		return nil, pkgerrors.Invalid("amount", "must not be negative")
	}
	return s.mutate(ctx, id, func(tx *gorm.DB, order *models.Order) error {
		ApplyPayment(order, input.Status, input.Amount)
		if err := s.record(ctx, tx, order, enums.LedgerEventForPayment(input.Amount, order.PaymentStatus), input.Amount, nil); err != nil {
			return err
		}
		return s.emit(ctx, tx, enums.EventOrderPaymentApplied, order, payloads.OrderPaymentAppliedEvent{
			OrderID:          order.ID,
			CustomerID:       order.CustomerID,
			Amount:           input.Amount,
			PaymentStatus:    order.PaymentStatus,
			AdvancePayment:   order.AdvancePayment,
			RemainingPayment: order.RemainingPayment,
			TotalAmount:      order.TotalAmount,
		})
	})
}

func (s *service) PlanInstallments(ctx context.Context, id uuid.UUID, months int) (*OrderDTO, error) {
	return s.mutate(ctx, id, func(tx *gorm.DB, order *models.Order) error {
		if err := PlanInstallments(order, months); err != nil {
			if errors.Is(err, ErrInvalidInstallmentMonths) {
				return pkgerrors.Invalid("installment_months", err.Error())
			}
			return err
		}
		meta, err := json.Marshal(map[string]any{
			"months":         order.InstallmentMonths,
			"monthly_amount": order.MonthlyInstallmentAmount,
		})
		if err != nil {
			return err
		}
		if err := s.record(ctx, tx, order, enums.LedgerEventInstallmentsPlan, 0, meta); err != nil {
			return err
		}
		return s.emit(ctx, tx, enums.EventOrderInstallmentsPlanned, order, payloads.OrderInstallmentsPlannedEvent{
			OrderID:          order.ID,
			CustomerID:       order.CustomerID,
			Months:           order.InstallmentMonths,
			MonthlyAmount:    order.MonthlyInstallmentAmount,
			RemainingPayment: order.RemainingPayment,
			TotalAmount:      order.TotalAmount,
		})
	})
}

func (s *service) mutate(ctx context.Context, id uuid.UUID, fn func(*gorm.DB, *models.Order) error) (*OrderDTO, error) {
	var out *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		order, err := s.loadForUpdate(ctx, txRepo, id)
		if err != nil {
			return err
		}
		if err := fn(tx, order); err != nil {
			return err
		}
		if err := txRepo.Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order")
		}
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewOrderDTO(out), nil
}

func (s *service) emit(ctx context.Context, tx *gorm.DB, eventType enums.OutboxEventType, order *models.Order, data any) error {
	if s.events == nil {
		return nil
	}
	err := s.events.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Actor:         &outbox.ActorRef{Service: "orders", SalesPerson: order.SalesPerson},
		Data:          data,
		OccurredAt:    s.now(),
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "outbox: queue "+string(eventType))
	}
	return nil
}

func (s *service) record(ctx context.Context, tx *gorm.DB, order *models.Order, eventType enums.LedgerEventType, amount float64, meta json.RawMessage) error {
	if s.ledger == nil {
		return nil
	}
	_, err := s.ledger.RecordEvent(ctx, tx, ledger.RecordInput{
		OrderID:          order.ID,
		CustomerID:       order.CustomerID,
		Type:             eventType,
		PaymentStatus:    order.PaymentStatus,
		Amount:           amount,
		AdvancePayment:   order.AdvancePayment,
		RemainingPayment: order.RemainingPayment,
		Metadata:         meta,
	})
	return err
}

func itemFurnitureIDs(o *models.Order) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(o.Items))
	for _, item := range o.Items {
		ids = append(ids, item.FurnitureID)
	}
	return ids
}

func (s *service) loadForUpdate(ctx context.Context, repo Repository, id uuid.UUID) (*models.Order, error) {
	order, err := repo.FindForUpdate(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound("order", id.String())
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	return order, nil
}

// loadFurniture resolves ids in order, keeping duplicates.
func (s *service) loadFurniture(ctx context.Context, ids []uuid.UUID) ([]*models.Furniture, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.furniture.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load furniture")
	}
	byID := make(map[uuid.UUID]*models.Furniture, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	out := make([]*models.Furniture, 0, len(ids))
	for _, id := range ids {
		f, ok := byID[id]
		if !ok {
			return nil, pkgerrors.Invalid("furniture_id", fmt.Sprintf("furniture %s not found", id))
		}
		out = append(out, f)
	}
	return out, nil
}

func validateDetails(d Details) error {
	if d.PaymentMethod != nil && !d.PaymentMethod.IsValid() {
		return pkgerrors.Invalid("payment_method", "unknown payment method")
	}
	if d.DeliveryCharges < 0 {
		return pkgerrors.Invalid("delivery_charges", "must not be negative")
	}
	if d.InstallationCharges < 0 {
		return pkgerrors.Invalid("installation_charges", "must not be negative")
	}
	return nil
}

func applyDetails(o *models.Order, d Details) {
	o.ExpectedDeliveryDate = utcPtr(d.ExpectedDeliveryDate)
	o.InstallationDate = utcPtr(d.InstallationDate)
	o.PaymentMethod = d.PaymentMethod
	o.PaymentNotes = d.PaymentNotes
	o.DeliveryCity = d.DeliveryCity
	o.DeliveryArea = d.DeliveryArea
	o.DeliveryAddress = d.DeliveryAddress
	o.DeliveryContactNumber = d.DeliveryContactNumber
	o.DeliveryCharges = d.DeliveryCharges
	o.DeliveryNotes = d.DeliveryNotes
	o.RequiresAssembly = d.RequiresAssembly
	o.RequiresInstallation = d.RequiresInstallation
	o.InstallationCharges = d.InstallationCharges
	o.InstallationNotes = d.InstallationNotes
	o.SpecialInstructions = d.SpecialInstructions
	o.SalesPerson = d.SalesPerson
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func pageKey(o models.Order) pagination.Cursor {
	return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
}

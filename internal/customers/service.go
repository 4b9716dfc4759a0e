package customers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/totofurniture/furnistore-backend/pkg/db"
	"github.com/totofurniture/furnistore-backend/pkg/db/models"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
	pkgerrors "github.com/totofurniture/furnistore-backend/pkg/errors"
	"github.com/totofurniture/furnistore-backend/pkg/logger"
	"github.com/totofurniture/furnistore-backend/pkg/outbox"
	"github.com/totofurniture/furnistore-backend/pkg/outbox/payloads"
)

const defaultInactivityWindow = 365 * 24 * time.Hour

// Service manages customers, loyalty and the status sweeps.
type Service interface {
	Create(ctx context.Context, input CustomerInput) (*CustomerDTO, error)
	Update(ctx context.Context, id uuid.UUID, input CustomerInput) (*CustomerDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CustomerDTO, error)
	Find(ctx context.Context, filter Filter) ([]CustomerDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error

	Loyalty(ctx context.Context, id uuid.UUID) (*LoyaltyDTO, error)
	UpgradeToVIPIfEligible(ctx context.Context, id uuid.UUID) (bool, error)
	UpgradeEligibleToVIP(ctx context.Context) (int, error)
	MarkInactiveCustomers(ctx context.Context) (int, error)
}

// CustomerInput is the writable state of a customer. Empty Status and
// CustomerType fall back to active and first_time.
type CustomerInput struct {
	FirstName              string
	LastName               string
	PrimaryPhone           *string
	SecondaryPhone         *string
	CNICNumber             *string
	City                   *string
	Area                   *string
	CompleteAddress        *string
	Status                 enums.CustomerStatus
	CustomerType           enums.CustomerType
	PreferredPaymentMethod *enums.PaymentMethod
	MarketingConsent       bool
	SpecialNotes           *string
	ReferralSource         *string
}

// ServiceParams wires the customer service. Events is optional; when set,
// VIP upgrades queue a customer_vip_upgraded event.
type ServiceParams struct {
	Repo             *Repository
	DB               *db.Client
	Events           outbox.Emitter
	Logger           *logger.Logger
	VIPMinOrders     int
	InactivityWindow time.Duration
	Now              func() time.Time
}

type service struct {
	repo             *Repository
	dbClient         *db.Client
	events           outbox.Emitter
	logg             *logger.Logger
	vipMinOrders     int
	inactivityWindow time.Duration
	now              func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	svc := &service{
		repo:             params.Repo,
		dbClient:         params.DB,
		events:           params.Events,
		logg:             params.Logger,
		vipMinOrders:     params.VIPMinOrders,
		inactivityWindow: params.InactivityWindow,
		now:              params.Now,
	}
	if svc.vipMinOrders <= 0 {
		svc.vipMinOrders = VIPMinOrders
	}
	if svc.inactivityWindow <= 0 {
		svc.inactivityWindow = defaultInactivityWindow
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc, nil
}

func (s *service) Create(ctx context.Context, input CustomerInput) (*CustomerDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	customer := &models.Customer{RegistrationDate: s.now().UTC()}
	applyInput(customer, input)
	if _, err := s.repo.Create(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert customer")
	}
	return NewCustomerDTO(customer), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input CustomerInput) (*CustomerDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	customer, err := s.mustLoad(ctx, id)
	if err != nil {
		return nil, err
	}
	applyInput(customer, input)
	if _, err := s.repo.Update(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update customer")
	}
	return NewCustomerDTO(customer), nil
}

// Get returns nil without error when the customer does not exist.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.load(ctx, id)
	if err != nil || customer == nil {
		return nil, err
	}
	return NewCustomerDTO(customer), nil
}

func (s *service) Find(ctx context.Context, filter Filter) ([]CustomerDTO, error) {
	rows, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find customers")
	}
	return toDTOs(rows), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete customer")
		}
		return nil
	})
}

func (s *service) Loyalty(ctx context.Context, id uuid.UUID) (*LoyaltyDTO, error) {
	customer, err := s.mustLoad(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.OrderCount(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count customer orders")
	}
	return &LoyaltyDTO{
		CustomerID:   id,
		OrderCount:   count,
		LoyaltyScore: LoyaltyScore(customer, count, s.now()),
	}, nil
}

// UpgradeToVIPIfEligible promotes a customer with enough orders. Unknown
// customers report false without error.
func (s *service) UpgradeToVIPIfEligible(ctx context.Context, id uuid.UUID) (bool, error) {
	customer, err := s.load(ctx, id)
	if err != nil || customer == nil {
		return false, err
	}
	count, err := s.repo.OrderCount(ctx, id)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count customer orders")
	}
	if !EligibleForVIP(customer, count, s.vipMinOrders) {
		return false, nil
	}
	if err := s.promote(ctx, id, count); err != nil {
		return false, err
	}
	return true, nil
}

// UpgradeEligibleToVIP promotes every eligible customer. Failed writes are
// collected and the count of successful upgrades is still returned.
func (s *service) UpgradeEligibleToVIP(ctx context.Context) (int, error) {
	candidates, err := s.repo.FindUpgradeCandidates(ctx, s.vipMinOrders)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find vip candidates")
	}
	upgraded := 0
	var errs error
	for _, c := range candidates {
		count, err := s.repo.OrderCount(ctx, c.ID)
		if err == nil {
			err = s.promote(ctx, c.ID, count)
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("upgrade customer %s: %w", c.ID, err))
			continue
		}
		upgraded++
	}
	return upgraded, errs
}

// promote writes the VIP type and its outbox event in one transaction.
func (s *service) promote(ctx context.Context, id uuid.UUID, orderCount int64) error {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpdateType(ctx, id, enums.CustomerTypeVIP); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upgrade customer")
		}
		if s.events == nil {
			return nil
		}
		now := s.now().UTC()
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventCustomerVIPUpgraded,
			AggregateType: enums.AggregateCustomer,
			AggregateID:   id,
			Actor:         &outbox.ActorRef{Service: "customers"},
			Data: payloads.CustomerVIPUpgradedEvent{
				CustomerID: id,
				OrderCount: orderCount,
				UpgradedAt: now,
			},
			OccurredAt: now,
		})
	})
	if err != nil {
		return err
	}
	s.logg.Info(s.logg.WithCustomerID(ctx, id.String()), "customer upgraded to vip")
	return nil
}

// MarkInactiveCustomers flips active customers without an order inside the
// inactivity window to inactive and returns how many changed.
func (s *service) MarkInactiveCustomers(ctx context.Context) (int, error) {
	cutoff := s.now().UTC().Add(-s.inactivityWindow)
	idle, err := s.repo.FindIdleSince(ctx, cutoff)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find idle customers")
	}
	updated := 0
	var errs error
	for _, c := range idle {
		if err := s.repo.UpdateStatus(ctx, c.ID, enums.CustomerStatusInactive); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("deactivate customer %s: %w", c.ID, err))
			continue
		}
		updated++
	}
	return updated, errs
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}
	return customer, nil
}

func (s *service) mustLoad(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, pkgerrors.NotFound("customer", id.String())
	}
	return customer, nil
}

func validateInput(input CustomerInput) error {
	if strings.TrimSpace(input.FirstName) == "" {
		return pkgerrors.Invalid("first_name", "first name is required")
	}
	if strings.TrimSpace(input.LastName) == "" {
		return pkgerrors.Invalid("last_name", "last name is required")
	}
	if input.Status != "" && !input.Status.IsValid() {
		return pkgerrors.Invalid("status", "unknown customer status")
	}
	if input.CustomerType != "" && !input.CustomerType.IsValid() {
		return pkgerrors.Invalid("customer_type", "unknown customer type")
	}
	if m := input.PreferredPaymentMethod; m != nil && !m.IsValid() {
		return pkgerrors.Invalid("preferred_payment_method", "unknown payment method")
	}
	return nil
}

func applyInput(c *models.Customer, input CustomerInput) {
	c.FirstName = strings.TrimSpace(input.FirstName)
	c.LastName = strings.TrimSpace(input.LastName)
	c.PrimaryPhone = input.PrimaryPhone
	c.SecondaryPhone = input.SecondaryPhone
	c.CNICNumber = input.CNICNumber
	c.City = input.City
	c.Area = input.Area
	c.CompleteAddress = input.CompleteAddress
	c.Status = input.Status
	if c.Status == "" {
		c.Status = enums.CustomerStatusActive
	}
	c.CustomerType = input.CustomerType
	if c.CustomerType == "" {
		c.CustomerType = enums.CustomerTypeFirstTime
	}
	c.PreferredPaymentMethod = input.PreferredPaymentMethod
	c.MarketingConsent = input.MarketingConsent
	c.SpecialNotes = input.SpecialNotes
	c.ReferralSource = input.ReferralSource
}

package suppliers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/totofurniture/furnistore-backend/internal/furniture"
	"github.com/totofurniture/furnistore-backend/pkg/db"
	"github.com/totofurniture/furnistore-backend/pkg/db/models"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
	pkgerrors "github.com/totofurniture/furnistore-backend/pkg/errors"
)

// Service exposes supplier management and scoring.
type Service interface {
	Create(ctx context.Context, input SupplierInput) (*SupplierDTO, error)
	Update(ctx context.Context, id uuid.UUID, input SupplierInput) (*SupplierDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*SupplierDTO, error)
	Find(ctx context.Context, filter Filter) ([]SupplierDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error

	Score(ctx context.Context, id uuid.UUID) (*ScoreDTO, error)
	Furniture(ctx context.Context, id uuid.UUID) ([]furniture.FurnitureDTO, error)
	OrderTotal(ctx context.Context, id uuid.UUID, furnitureIDs []uuid.UUID) (*OrderTotalDTO, error)
	CanServiceLocation(ctx context.Context, id uuid.UUID, city string) (bool, error)
	MarkOnHold(ctx context.Context, ids []uuid.UUID) (int, error)

	AddWoodType(ctx context.Context, id uuid.UUID, wood enums.WoodType) (*SupplierDTO, error)
	RemoveWoodType(ctx context.Context, id uuid.UUID, wood enums.WoodType) (*SupplierDTO, error)
	AddSpecialty(ctx context.Context, id uuid.UUID, specialty string) (*SupplierDTO, error)
	RemoveSpecialty(ctx context.Context, id uuid.UUID, specialty string) (*SupplierDTO, error)
	AddServiceCity(ctx context.Context, id uuid.UUID, city string) (*SupplierDTO, error)
	RemoveServiceCity(ctx context.Context, id uuid.UUID, city string) (*SupplierDTO, error)
}

// SupplierInput is the full writable state of a supplier. An empty Status
// defaults to active.
type SupplierInput struct {
	CompanyName            string
	OwnerName              *string
	ContactPerson          *string
	Email                  *string
	PrimaryPhone           *string
	SecondaryPhone         *string
	City                   *string
	Area                   *string
	CompleteAddress        *string
	NTNNumber              *string
	CNICNumber             *string
	SupplierType           *enums.SupplierType
	Status                 enums.SupplierStatus
	Specialties            []string
	WoodTypesOffered       []enums.WoodType
	ServiceCities          []string
	MinimumOrderAmount     *float64
	StandardLeadTimeDays   *int
	BulkOrderDiscountRate  *float64
	ProvidesCustomWork     bool
	ProvidesInstallation   bool
	PaymentTerms           *string
	PreferredPaymentMethod *enums.PaymentMethod
}

type service struct {
	repo          *Repository
	furnitureRepo *furniture.Repository
	dbClient      *db.Client
}

func NewService(repo *Repository, furnitureRepo *furniture.Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	if furnitureRepo == nil {
		return nil, fmt.Errorf("furniture repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, furnitureRepo: furnitureRepo, dbClient: dbClient}, nil
}

func (s *service) Create(ctx context.Context, input SupplierInput) (*SupplierDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	supplier := &models.Supplier{}
	applyInput(supplier, input)
	if _, err := s.repo.Create(ctx, supplier); err != nil {
		return nil, writeError(err, "db: insert supplier")
	}
	return NewSupplierDTO(supplier), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input SupplierInput) (*SupplierDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	supplier, err := s.mustLoad(ctx, id)
	if err != nil {
		return nil, err
	}
	applyInput(supplier, input)
	if _, err := s.repo.Update(ctx, supplier); err != nil {
		return nil, writeError(err, "db: update supplier")
	}
	return NewSupplierDTO(supplier), nil
}

// Get returns nil without error when the supplier does not exist.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*SupplierDTO, error) {
	supplier, err := s.load(ctx, id)
	if err != nil || supplier == nil {
		return nil, err
	}
	return NewSupplierDTO(supplier), nil
}

func (s *service) Find(ctx context.Context, filter Filter) ([]SupplierDTO, error) {
	rows, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find suppliers")
	}
	return toDTOs(rows), nil
}

// Delete unlinks the supplier's furniture and removes the supplier. The
// furniture itself is kept.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.furnitureRepo.WithTx(tx).DetachSupplier(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: detach supplier furniture")
		}
		if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete supplier")
		}
		return nil
	})
}

func (s *service) Score(ctx context.Context, id uuid.UUID) (*ScoreDTO, error) {
	supplier, err := s.mustLoad(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ScoreDTO{SupplierID: supplier.ID, ReliabilityScore: ReliabilityScore(supplier)}, nil
}

func (s *service) Furniture(ctx context.Context, id uuid.UUID) ([]furniture.FurnitureDTO, error) {
	if _, err := s.mustLoad(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.furnitureRepo.Find(ctx, furniture.Filter{SupplierID: &id})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list supplier furniture")
	}
	out := make([]furniture.FurnitureDTO, len(rows))
	for i := range rows {
		out[i] = *furniture.NewFurnitureDTO(&rows[i])
	}
	return out, nil
}

// OrderTotal prices the given pieces with the supplier's bulk discount.
// Unknown furniture ids are rejected.
func (s *service) OrderTotal(ctx context.Context, id uuid.UUID, furnitureIDs []uuid.UUID) (*OrderTotalDTO, error) {
	supplier, err := s.mustLoad(ctx, id)
	if err != nil {
		return nil, err
	}
	found, err := s.furnitureRepo.FindByIDs(ctx, furnitureIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load furniture")
	}
	byID := make(map[uuid.UUID]models.Furniture, len(found))
	for _, f := range found {
		byID[f.ID] = f
	}
	items := make([]models.Furniture, 0, len(furnitureIDs))
	for _, fid := range furnitureIDs {
		f, ok := byID[fid]
		if !ok {
			return nil, pkgerrors.Invalid("furniture_ids", fmt.Sprintf("furniture %s not found", fid))
		}
		items = append(items, f)
	}
	return &OrderTotalDTO{
		SupplierID: supplier.ID,
		ItemCount:  len(items),
		Total:      OrderTotal(supplier, items).StringFixed(2),
	}, nil
}

func (s *service) CanServiceLocation(ctx context.Context, id uuid.UUID, city string) (bool, error) {
	supplier, err := s.mustLoad(ctx, id)
	if err != nil {
		return false, err
	}
	return CanServiceLocation(supplier, city), nil
}

// MarkOnHold moves active suppliers among ids to on_hold and returns how
// many changed. Missing or non-active suppliers are skipped. Each supplier is
// written on its own; failures are collected and the rest still proceed.
func (s *service) MarkOnHold(ctx context.Context, ids []uuid.UUID) (int, error) {
	rows, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load suppliers")
	}
	changed := 0
	var errs error
	for _, row := range rows {
		if row.Status != enums.SupplierStatusActive {
			continue
		}
		if err := s.repo.UpdateStatus(ctx, row.ID, enums.SupplierStatusOnHold); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("hold supplier %s: %w", row.ID, err))
			continue
		}
		changed++
	}
	return changed, errs
}

func (s *service) AddWoodType(ctx context.Context, id uuid.UUID, wood enums.WoodType) (*SupplierDTO, error) {
	if !wood.IsValid() {
		return nil, pkgerrors.Invalid("wood_type", "unknown wood type")
	}
	return s.mutate(ctx, id, func(sup *models.Supplier) {
		if !containsWood(sup.WoodTypesOffered, wood) {
			sup.WoodTypesOffered = append(sup.WoodTypesOffered, wood)
		}
	})
}

func (s *service) RemoveWoodType(ctx context.Context, id uuid.UUID, wood enums.WoodType) (*SupplierDTO, error) {
	return s.mutate(ctx, id, func(sup *models.Supplier) {
		out := sup.WoodTypesOffered[:0]
		for _, w := range sup.WoodTypesOffered {
			if w != wood {
				out = append(out, w)
			}
		}
		sup.WoodTypesOffered = out
	})
}

func (s *service) AddSpecialty(ctx context.Context, id uuid.UUID, specialty string) (*SupplierDTO, error) {
	specialty = strings.TrimSpace(specialty)
	if specialty == "" {
		return nil, pkgerrors.Invalid("specialty", "specialty required")
	}
	return s.mutate(ctx, id, func(sup *models.Supplier) {
		sup.Specialties = addUnique(sup.Specialties, specialty)
	})
}

func (s *service) RemoveSpecialty(ctx context.Context, id uuid.UUID, specialty string) (*SupplierDTO, error) {
	return s.mutate(ctx, id, func(sup *models.Supplier) {
		sup.Specialties = removeFold(sup.Specialties, specialty)
	})
}

func (s *service) AddServiceCity(ctx context.Context, id uuid.UUID, city string) (*SupplierDTO, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, pkgerrors.Invalid("city", "city required")
	}
	return s.mutate(ctx, id, func(sup *models.Supplier) {
		sup.ServiceCities = addUnique(sup.ServiceCities, city)
	})
}

func (s *service) RemoveServiceCity(ctx context.Context, id uuid.UUID, city string) (*SupplierDTO, error) {
	return s.mutate(ctx, id, func(sup *models.Supplier) {
		sup.ServiceCities = removeFold(sup.ServiceCities, city)
	})
}

func (s *service) mutate(ctx context.Context, id uuid.UUID, fn func(*models.Supplier)) (*SupplierDTO, error) {
	supplier, err := s.mustLoad(ctx, id)
	if err != nil {
		return nil, err
	}
	fn(supplier)
	if _, err := s.repo.Update(ctx, supplier); err != nil {
		return nil, writeError(err, "db: update supplier")
	}
	return NewSupplierDTO(supplier), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
	}
	return supplier, nil
}

func (s *service) mustLoad(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	supplier, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, pkgerrors.NotFound("supplier", id.String())
	}
	return supplier, nil
}

func writeError(err error, msg string) error {
	if pkgerrors.IsUniqueViolation(err) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "supplier email already registered")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}

func validateInput(input SupplierInput) error {
	if strings.TrimSpace(input.CompanyName) == "" {
		return pkgerrors.Invalid("company_name", "company name is required")
	}
	if input.Status != "" && !input.Status.IsValid() {
		return pkgerrors.Invalid("status", "unknown supplier status")
	}
	if input.SupplierType != nil && !input.SupplierType.IsValid() {
		return pkgerrors.Invalid("supplier_type", "unknown supplier type")
	}
	if rate := input.BulkOrderDiscountRate; rate != nil && (*rate < 0 || *rate >= 1) {
		return pkgerrors.Invalid("bulk_order_discount_rate", "must be in [0, 1)")
	}
	if days := input.StandardLeadTimeDays; days != nil && *days < 0 {
		return pkgerrors.Invalid("standard_lead_time_days", "must not be negative")
	}
	if amount := input.MinimumOrderAmount; amount != nil && *amount < 0 {
		return pkgerrors.Invalid("minimum_order_amount", "must not be negative")
	}
	for _, w := range input.WoodTypesOffered {
		if !w.IsValid() {
			return pkgerrors.Invalid("wood_types_offered", fmt.Sprintf("unknown wood type %q", w))
		}
	}
	return nil
}

func applyInput(s *models.Supplier, input SupplierInput) {
	s.CompanyName = strings.TrimSpace(input.CompanyName)
	s.OwnerName = input.OwnerName
	s.ContactPerson = input.ContactPerson
	s.Email = input.Email
	s.PrimaryPhone = input.PrimaryPhone
	s.SecondaryPhone = input.SecondaryPhone
	s.City = input.City
	s.Area = input.Area
	s.CompleteAddress = input.CompleteAddress
	s.NTNNumber = input.NTNNumber
	s.CNICNumber = input.CNICNumber
	s.SupplierType = input.SupplierType
	s.Status = input.Status
	if s.Status == "" {
		s.Status = enums.SupplierStatusActive
	}
	s.Specialties = input.Specialties
	s.WoodTypesOffered = input.WoodTypesOffered
	s.ServiceCities = input.ServiceCities
	s.MinimumOrderAmount = input.MinimumOrderAmount
	s.StandardLeadTimeDays = input.StandardLeadTimeDays
	s.BulkOrderDiscountRate = input.BulkOrderDiscountRate
	s.ProvidesCustomWork = input.ProvidesCustomWork
	s.ProvidesInstallation = input.ProvidesInstallation
	s.PaymentTerms = input.PaymentTerms
	s.PreferredPaymentMethod = input.PreferredPaymentMethod
}

func addUnique(list []string, value string) []string {
	for _, v := range list {
		if strings.EqualFold(v, value) {
			return list
		}
	}
	return append(list, value)
}

func removeFold(list []string, value string) []string {
	out := list[:0]
	for _, v := range list {
		if !strings.EqualFold(v, strings.TrimSpace(value)) {
			out = append(out, v)
		}
	}
	return out
}

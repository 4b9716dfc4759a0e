package furniture

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/totofurniture/furnistore-backend/pkg/db"
	"github.com/totofurniture/furnistore-backend/pkg/db/models"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
	pkgerrors "github.com/totofurniture/furnistore-backend/pkg/errors"
	"github.com/totofurniture/furnistore-backend/pkg/pagination"
)

// Service exposes catalogue management and the pricing engine.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*FurnitureDTO, error)
	Update(ctx context.Context, id uuid.UUID, input CreateInput) (*FurnitureDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*FurnitureDTO, error)
	GetBySlug(ctx context.Context, slug string) (*FurnitureDTO, error)
	List(ctx context.Context, input ListInput) (*ListResult, error)
	Find(ctx context.Context, filter Filter) ([]FurnitureDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error

	Quote(ctx context.Context, id uuid.UUID) (*QuoteDTO, error)
	Refurbish(ctx context.Context, id uuid.UUID) (*FurnitureDTO, error)
	AssignSupplier(ctx context.Context, id uuid.UUID, supplierID *uuid.UUID) (*FurnitureDTO, error)
	TopSelling(ctx context.Context, limit int) ([]TopSellingDTO, error)

	SetMiscAttribute(ctx context.Context, id uuid.UUID, name, value string) (*FurnitureDTO, error)
	RemoveMiscAttribute(ctx context.Context, id uuid.UUID, name string) (*FurnitureDTO, error)
	SetMiscPriceModifier(ctx context.Context, id uuid.UUID, name string, value float64) (*FurnitureDTO, error)
	RemoveMiscPriceModifier(ctx context.Context, id uuid.UUID, name string) (*FurnitureDTO, error)

	ChairAdvice(ctx context.Context, id uuid.UUID) (*ChairAdviceDTO, error)
	SofaAdvice(ctx context.Context, id uuid.UUID) (*SofaAdviceDTO, error)
	TableAdvice(ctx context.Context, id uuid.UUID) (*TableAdviceDTO, error)
	MiscAdvice(ctx context.Context, id uuid.UUID) (*MiscAdviceDTO, error)
}

// CreateInput carries the shared fields plus the one variant block matching Kind.
type CreateInput struct {
	Kind         enums.FurnitureKind
	Name         string
	Price        float64
	Material     *string
	Manufacturer *string
	WoodType     *enums.WoodType
	SupplierID   *uuid.UUID

	Bed   *BedInput
	Chair *ChairInput
	Sofa  *SofaInput
	Table *TableInput
	Misc  *MiscInput
}

type BedInput struct {
	Size              string
	HasHeadboard      bool
	HasFootboard      bool
	HasStorageDrawers bool
	MattressType      *string
	IsAdjustable      bool
}

type ChairInput struct {
	SeatingCapacity int
	HasArmrests     bool
	ChairStyle      *string
	IsAdjustable    bool
	HasWheels       bool
}

type SofaInput struct {
	SeatingCapacity  int
	IsConvertible    bool
	UpholsteryType   *string
	NumberOfCushions int
	HasRecliners     bool
}

type TableInput struct {
	Shape           *string
	SeatingCapacity int
	IsExtendable    bool
	Length          float64
	Width           float64
	Height          float64
	HasGlassTop     bool
}

type MiscInput struct {
	Category       *string
	Description    *string
	Attributes     []NamedString
	PriceModifiers []NamedAmount
}

type ListInput struct {
	Filter     Filter
	Pagination pagination.Params
}

type supplierLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
}

type service struct {
	repo      *Repository
	dbClient  *db.Client
	suppliers supplierLookup
}

// NewService constructs the furniture service.
func NewService(repo *Repository, dbClient *db.Client, suppliers supplierLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("furniture repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if suppliers == nil {
		return nil, fmt.Errorf("supplier lookup required")
	}
	return &service{repo: repo, dbClient: dbClient, suppliers: suppliers}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*FurnitureDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := s.ensureSupplier(ctx, input.SupplierID); err != nil {
		return nil, err
	}

	f := &models.Furniture{ID: uuid.New()}
	applyInput(f, input)
	f.Slug = makeSlug(input.Name, f.ID)

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, f); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert furniture")
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return s.Get(ctx, f.ID)
}

// Update replaces every field of an existing record. The kind cannot change.
func (s *service) Update(ctx context.Context, id uuid.UUID, input CreateInput) (*FurnitureDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := s.ensureSupplier(ctx, input.SupplierID); err != nil {
		return nil, err
	}

	existing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, pkgerrors.NotFound("furniture", id.String())
	}
	if existing.Kind != input.Kind {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict, "furniture %s is a %s, not a %s", id, existing.Kind, input.Kind)
	}

	existing.Bed, existing.Chair, existing.Sofa, existing.Table, existing.Misc = nil, nil, nil, nil, nil
	applyInput(existing, input)
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Update(ctx, existing); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update furniture")
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Get returns nil without error when the record does not exist.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*FurnitureDTO, error) {
	f, err := s.load(ctx, id)
	if err != nil || f == nil {
		return nil, err
	}
	return NewFurnitureDTO(f), nil
}

func (s *service) GetBySlug(ctx context.Context, value string) (*FurnitureDTO, error) {
	f, err := s.repo.FindBySlug(ctx, value)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load furniture by slug")
	}
	return NewFurnitureDTO(f), nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	cursor, err := input.Pagination.Decode()
	if err != nil {
		return nil, err
	}
	query := listQuery{filter: input.Filter, limit: input.Pagination.Fetch(), cursor: cursor}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list furniture")
	}

	rows, next := pagination.Trim(rows, input.Pagination.Size(), pageKey)
	return &ListResult{Items: toDTOs(rows), Cursor: next}, nil
}

func (s *service) Find(ctx context.Context, filter Filter) ([]FurnitureDTO, error) {
	rows, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find furniture")
	}
	return toDTOs(rows), nil
}

// Delete is a no-op for unknown ids and refuses pieces that appear on orders.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		used, err := txRepo.InOrders(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check furniture usage")
		}
		if used {
			return pkgerrors.Newf(pkgerrors.CodeConflict, "furniture %s is referenced by orders", id)
		}
		if err := txRepo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete furniture")
		}
		return nil
	})
}

func (s *service) Quote(ctx context.Context, id uuid.UUID) (*QuoteDTO, error) {
	f, err := s.mustLoad(ctx, id)
	if err != nil {
		return nil, err
	}
	return BuildQuote(f)
}

// BuildQuote prices f with the cost engine and discount heuristics.
func BuildQuote(f *models.Furniture) (*QuoteDTO, error) {
	cost, err := CalculateCost(f)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "cannot price furniture")
	}
	rate, err := SuggestedDiscount(f)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "cannot price furniture")
	}
	factor, _ := RefurbishFactor(f.Kind)
	quote := &QuoteDTO{
		FurnitureID:     f.ID,
		Kind:            f.Kind,
		Price:           f.Price,
		Cost:            cost.StringFixed(2),
		DiscountRate:    rate.StringFixed(2),
		DiscountedCost:  cost.Mul(decimal.NewFromInt(1).Sub(rate)).StringFixed(2),
		RefurbishFactor: factor.String(),
	}
	if f.Kind == enums.FurnitureKindMisc {
		final := MiscFinalPrice(f).StringFixed(2)
		quote.MiscFinalPrice = &final
	}
	return quote, nil
}

func (s *service) Refurbish(ctx context.Context, id uuid.UUID) (*FurnitureDTO, error) {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		f, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.NotFound("furniture", id.String())
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load furniture")
		}
		if err := Refurbish(f); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "cannot refurbish furniture")
		}
		if err := txRepo.UpdatePrice(ctx, f.ID, f.Price); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update furniture price")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// AssignSupplier links the piece to a supplier, or unlinks it when supplierID is nil.
func (s *service) AssignSupplier(ctx context.Context, id uuid.UUID, supplierID *uuid.UUID) (*FurnitureDTO, error) {
	if _, err := s.mustLoad(ctx, id); err != nil {
		return nil, err
	}
	if err := s.ensureSupplier(ctx, supplierID); err != nil {
		return nil, err
	}
	if err := s.repo.AssignSupplier(ctx, id, supplierID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: assign supplier")
	}
	return s.Get(ctx, id)
}

func (s *service) TopSelling(ctx context.Context, limit int) ([]TopSellingDTO, error) {
	limit = pagination.NormalizeLimit(limit)
	ranked, err := s.repo.TopSelling(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: rank furniture")
	}
	ids := make([]uuid.UUID, len(ranked))
	for i, row := range ranked {
		ids[i] = row.FurnitureID
	}
	rows, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load furniture")
	}
	byID := make(map[uuid.UUID]*models.Furniture, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	out := make([]TopSellingDTO, 0, len(ranked))
	for _, row := range ranked {
		f, ok := byID[row.FurnitureID]
		if !ok {
			continue
		}
		out = append(out, TopSellingDTO{Furniture: *NewFurnitureDTO(f), Sold: row.Sold})
	}
	return out, nil
}

func (s *service) SetMiscAttribute(ctx context.Context, id uuid.UUID, name, value string) (*FurnitureDTO, error) {
	if strings.TrimSpace(name) == "" {
		return nil, pkgerrors.Invalid("name", "attribute name required")
	}
	return s.mutateMisc(ctx, id, func(m *models.MiscFurniture) error {
		SetAttribute(m, name, value)
		return nil
	})
}

func (s *service) RemoveMiscAttribute(ctx context.Context, id uuid.UUID, name string) (*FurnitureDTO, error) {
	return s.mutateMisc(ctx, id, func(m *models.MiscFurniture) error {
		RemoveAttribute(m, name)
		return nil
	})
}

func (s *service) SetMiscPriceModifier(ctx context.Context, id uuid.UUID, name string, value float64) (*FurnitureDTO, error) {
	if strings.TrimSpace(name) == "" {
		return nil, pkgerrors.Invalid("name", "modifier name required")
	}
	return s.mutateMisc(ctx, id, func(m *models.MiscFurniture) error {
		SetPriceModifier(m, name, value)
		return nil
	})
}

func (s *service) RemoveMiscPriceModifier(ctx context.Context, id uuid.UUID, name string) (*FurnitureDTO, error) {
	return s.mutateMisc(ctx, id, func(m *models.MiscFurniture) error {
		RemovePriceModifier(m, name)
		return nil
	})
}

func (s *service) mutateMisc(ctx context.Context, id uuid.UUID, mutate func(*models.MiscFurniture) error) (*FurnitureDTO, error) {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		f, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.NotFound("furniture", id.String())
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load furniture")
		}
		if f.Kind != enums.FurnitureKindMisc || f.Misc == nil {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "furniture %s is not a misc piece", id)
		}
		if err := mutate(f.Misc); err != nil {
			return err
		}
		if err := txRepo.ReplaceAttributes(ctx, id, f.Misc.Attributes); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace misc attributes")
		}
		if err := txRepo.ReplacePriceModifiers(ctx, id, f.Misc.PriceModifiers); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace misc price modifiers")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *service) ChairAdvice(ctx context.Context, id uuid.UUID) (*ChairAdviceDTO, error) {
	f, err := s.mustLoadKind(ctx, id, enums.FurnitureKindChair)
	if err != nil {
		return nil, err
	}
	return &ChairAdviceDTO{
		MaintenanceSchedule: ChairMaintenanceSchedule(f.Chair),
		DiscountRate:        ChairDiscount(f.Chair).InexactFloat64(),
	}, nil
}

func (s *service) SofaAdvice(ctx context.Context, id uuid.UUID) (*SofaAdviceDTO, error) {
	f, err := s.mustLoadKind(ctx, id, enums.FurnitureKindSofa)
	if err != nil {
		return nil, err
	}
	return &SofaAdviceDTO{
		CleaningProducts:   SofaCleaningProducts(f.Sofa),
		DeliveryDifficulty: SofaDeliveryDifficulty(f.Sofa),
	}, nil
}

func (s *service) TableAdvice(ctx context.Context, id uuid.UUID) (*TableAdviceDTO, error) {
	f, err := s.mustLoadKind(ctx, id, enums.FurnitureKindTables)
	if err != nil {
		return nil, err
	}
	return &TableAdviceDTO{
		Accessories:        TableAccessories(f.Table),
		SpaceRequirementM2: TableSpaceRequirement(f.Table),
	}, nil
}

func (s *service) MiscAdvice(ctx context.Context, id uuid.UUID) (*MiscAdviceDTO, error) {
	f, err := s.mustLoadKind(ctx, id, enums.FurnitureKindMisc)
	if err != nil {
		return nil, err
	}
	return &MiscAdviceDTO{SuggestedCategory: SuggestMiscCategory(f.Misc)}, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Furniture, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load furniture")
	}
	return f, nil
}

func (s *service) mustLoad(ctx context.Context, id uuid.UUID) (*models.Furniture, error) {
	f, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, pkgerrors.NotFound("furniture", id.String())
	}
	return f, nil
}

func (s *service) mustLoadKind(ctx context.Context, id uuid.UUID, kind enums.FurnitureKind) (*models.Furniture, error) {
	f, err := s.mustLoad(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.Kind != kind {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "%s %s not found", kind, id)
	}
	return f, nil
}

func (s *service) ensureSupplier(ctx context.Context, supplierID *uuid.UUID) error {
	if supplierID == nil {
		return nil
	}
	supplier, err := s.suppliers.FindByID(ctx, *supplierID)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.Invalid("supplier_id", "supplier does not exist")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
	}
	if supplier == nil {
		return pkgerrors.Invalid("supplier_id", "supplier does not exist")
	}
	return nil
}

func validateInput(input CreateInput) error {
	if !input.Kind.IsValid() {
		return pkgerrors.Invalid("kind", "unknown furniture kind")
	}
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.Invalid("name", "name is required")
	}
	if input.Price < 0 {
		return pkgerrors.Invalid("price", "price must not be negative")
	}
	if input.WoodType != nil && !input.WoodType.IsValid() {
		return pkgerrors.Invalid("wood_type", "unknown wood type")
	}

	var present bool
	switch input.Kind {
	case enums.FurnitureKindBed:
		present = input.Bed != nil
	case enums.FurnitureKindChair:
		present = input.Chair != nil
		if present && input.Chair.SeatingCapacity < 0 {
			return pkgerrors.Invalid("seating_capacity", "must not be negative")
		}
	case enums.FurnitureKindSofa:
		present = input.Sofa != nil
		if present && (input.Sofa.SeatingCapacity < 0 || input.Sofa.NumberOfCushions < 0) {
			return pkgerrors.Invalid("sofa", "counts must not be negative")
		}
	case enums.FurnitureKindTables:
		present = input.Table != nil
		if present && input.Table.SeatingCapacity < 0 {
			return pkgerrors.Invalid("seating_capacity", "must not be negative")
		}
	case enums.FurnitureKindMisc:
		present = input.Misc != nil
	}
	if !present {
		return pkgerrors.Invalid(string(input.Kind), "variant details are required")
	}
	return nil
}

func applyInput(f *models.Furniture, input CreateInput) {
	f.Kind = input.Kind
	f.Name = strings.TrimSpace(input.Name)
	f.Price = input.Price
	f.Material = input.Material
	f.Manufacturer = input.Manufacturer
	f.WoodType = input.WoodType
	f.SupplierID = input.SupplierID

	switch input.Kind {
	case enums.FurnitureKindBed:
		b := input.Bed
		f.Bed = &models.Bed{
			FurnitureID:       f.ID,
			Size:              b.Size,
			HasHeadboard:      b.HasHeadboard,
			HasFootboard:      b.HasFootboard,
			HasStorageDrawers: b.HasStorageDrawers,
			MattressType:      b.MattressType,
			IsAdjustable:      b.IsAdjustable,
		}
	case enums.FurnitureKindChair:
		c := input.Chair
		f.Chair = &models.Chair{
			FurnitureID:     f.ID,
			SeatingCapacity: c.SeatingCapacity,
			HasArmrests:     c.HasArmrests,
			ChairStyle:      c.ChairStyle,
			IsAdjustable:    c.IsAdjustable,
			HasWheels:       c.HasWheels,
		}
	case enums.FurnitureKindSofa:
		so := input.Sofa
		f.Sofa = &models.Sofa{
			FurnitureID:      f.ID,
			SeatingCapacity:  so.SeatingCapacity,
			IsConvertible:    so.IsConvertible,
			UpholsteryType:   so.UpholsteryType,
			NumberOfCushions: so.NumberOfCushions,
			HasRecliners:     so.HasRecliners,
		}
	case enums.FurnitureKindTables:
		t := input.Table
		f.Table = &models.Table{
			FurnitureID:     f.ID,
			Shape:           t.Shape,
			SeatingCapacity: t.SeatingCapacity,
			IsExtendable:    t.IsExtendable,
			Length:          t.Length,
			Width:           t.Width,
			Height:          t.Height,
			HasGlassTop:     t.HasGlassTop,
		}
	case enums.FurnitureKindMisc:
		m := input.Misc
		misc := &models.MiscFurniture{
			FurnitureID: f.ID,
			Category:    m.Category,
			Description: m.Description,
		}
		for _, attr := range m.Attributes {
			SetAttribute(misc, attr.Name, attr.Value)
		}
		for _, mod := range m.PriceModifiers {
			SetPriceModifier(misc, mod.Name, mod.Value)
		}
		f.Misc = misc
	}
}

func makeSlug(name string, id uuid.UUID) string {
	return slug.Make(name) + "-" + strings.SplitN(id.String(), "-", 2)[0]
}

func pageKey(f models.Furniture) pagination.Cursor {
	return pagination.Cursor{CreatedAt: f.CreatedAt, ID: f.ID}
}

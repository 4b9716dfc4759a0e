package furniture

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/totofurniture/furnistore-backend/pkg/db/models"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
	"github.com/totofurniture/furnistore-backend/pkg/pagination"
)

// Repository persists furniture records together with their variant rows.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

type listQuery struct {
	filter Filter
	cursor *pagination.Cursor
	limit  int
}

// TopSellingRow pairs a furniture id with how many order rows reference it.
type TopSellingRow struct {
	FurnitureID uuid.UUID `gorm:"column:furniture_id"`
	Sold        int64     `gorm:"column:sold"`
}

func withVariants(db *gorm.DB) *gorm.DB {
	byPosition := func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }
	return db.
		Preload("Bed").
		Preload("Chair").
		Preload("Sofa").
		Preload("Table").
		Preload("Misc").
		Preload("Misc.Attributes", byPosition).
		Preload("Misc.PriceModifiers", byPosition)
}

// Create inserts the base row and the variant row selected by Kind.
func (r *Repository) Create(ctx context.Context, f *models.Furniture) (*models.Furniture, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(f).Error; err != nil {
		return nil, err
	}
	if err := r.saveVariant(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Update overwrites the base row and the variant row.
func (r *Repository) Update(ctx context.Context, f *models.Furniture) (*models.Furniture, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(f).Error; err != nil {
		return nil, err
	}
	if err := r.saveVariant(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// UpdatePrice writes only the price column.
func (r *Repository) UpdatePrice(ctx context.Context, id uuid.UUID, price float64) error {
	return r.db.WithContext(ctx).
		Model(&models.Furniture{}).
		Where("id = ?", id).
		Update("price", price).
		Error
}

func (r *Repository) saveVariant(ctx context.Context, f *models.Furniture) error {
	db := r.db.WithContext(ctx)
	switch f.Kind {
	case enums.FurnitureKindBed:
		if f.Bed == nil {
			return ErrVariantMismatch
		}
		f.Bed.FurnitureID = f.ID
		return db.Save(f.Bed).Error
	case enums.FurnitureKindChair:
		if f.Chair == nil {
			return ErrVariantMismatch
		}
		f.Chair.FurnitureID = f.ID
		return db.Save(f.Chair).Error
	case enums.FurnitureKindSofa:
		if f.Sofa == nil {
			return ErrVariantMismatch
		}
		f.Sofa.FurnitureID = f.ID
		return db.Save(f.Sofa).Error
	case enums.FurnitureKindTables:
		if f.Table == nil {
			return ErrVariantMismatch
		}
		f.Table.FurnitureID = f.ID
		return db.Save(f.Table).Error
	case enums.FurnitureKindMisc:
		if f.Misc == nil {
			return ErrVariantMismatch
		}
		f.Misc.FurnitureID = f.ID
		if err := db.Omit(clause.Associations).Save(f.Misc).Error; err != nil {
			return err
		}
		if err := r.ReplaceAttributes(ctx, f.ID, f.Misc.Attributes); err != nil {
			return err
		}
		return r.ReplacePriceModifiers(ctx, f.ID, f.Misc.PriceModifiers)
	default:
		return fmt.Errorf("%w: %q", ErrVariantMismatch, f.Kind)
	}
}

// ReplaceAttributes replaces all custom attributes of a misc piece, keeping
// the slice order as position.
func (r *Repository) ReplaceAttributes(ctx context.Context, furnitureID uuid.UUID, attrs []models.MiscAttribute) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("furniture_id = ?", furnitureID).Delete(&models.MiscAttribute{}).Error; err != nil {
		return err
	}
	if len(attrs) == 0 {
		return nil
	}
	rows := make([]models.MiscAttribute, len(attrs))
	for i, attr := range attrs {
		rows[i] = models.MiscAttribute{FurnitureID: furnitureID, Name: attr.Name, Value: attr.Value, Position: i}
	}
	return tx.Create(&rows).Error
}

// ReplacePriceModifiers replaces all price modifiers of a misc piece.
func (r *Repository) ReplacePriceModifiers(ctx context.Context, furnitureID uuid.UUID, mods []models.MiscPriceModifier) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("furniture_id = ?", furnitureID).Delete(&models.MiscPriceModifier{}).Error; err != nil {
		return err
	}
	if len(mods) == 0 {
		return nil
	}
	rows := make([]models.MiscPriceModifier, len(mods))
	for i, mod := range mods {
		rows[i] = models.MiscPriceModifier{FurnitureID: furnitureID, Name: mod.Name, Value: mod.Value, Position: i}
	}
	return tx.Create(&rows).Error
}

// FindByID loads the furniture with its variant details.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Furniture, error) {
	var f models.Furniture
	if err := withVariants(r.db.WithContext(ctx)).First(&f, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Furniture, error) {
	var f models.Furniture
	if err := withVariants(r.db.WithContext(ctx)).First(&f, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// FindByIDs loads the given ids; missing ids are skipped.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Furniture, error) {
	var rows []models.Furniture
	if len(ids) == 0 {
		return rows, nil
	}
	err := withVariants(r.db.WithContext(ctx)).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

// Find returns every record matching filter, newest first.
func (r *Repository) Find(ctx context.Context, filter Filter) ([]models.Furniture, error) {
	var rows []models.Furniture
	query := applyFilter(r.db.WithContext(ctx).Model(&models.Furniture{}), filter)
	err := withVariants(query).
		Order("furniture.created_at DESC").
		Order("furniture.id DESC").
		Find(&rows).
		Error
	return rows, err
}

// List returns a cursor page of records matching the filter.
func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.Furniture, error) {
	query := applyFilter(r.db.WithContext(ctx).Model(&models.Furniture{}), opts.filter)

	var rows []models.Furniture
	err := withVariants(query).
		Scopes(pagination.After("furniture", opts.cursor)).
		Limit(opts.limit).
		Find(&rows).
		Error
	return rows, err
}

// Delete removes the furniture and its variant rows.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	for _, model := range []any{
		&models.MiscAttribute{},
		&models.MiscPriceModifier{},
		&models.MiscFurniture{},
		&models.Bed{},
		&models.Chair{},
		&models.Sofa{},
		&models.Table{},
	} {
		if err := db.Where("furniture_id = ?", id).Delete(model).Error; err != nil {
			return err
		}
	}
	return db.Where("id = ?", id).Delete(&models.Furniture{}).Error
}

// InOrders reports whether any order row references the furniture.
func (r *Repository) InOrders(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("furniture_id = ?", id).
		Count(&count).
		Error
	return count > 0, err
}

// AssignSupplier is the only writer of furniture.supplier_id.
func (r *Repository) AssignSupplier(ctx context.Context, id uuid.UUID, supplierID *uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Furniture{}).
		Where("id = ?", id).
		Update("supplier_id", supplierID).
		Error
}

// DetachSupplier clears supplier_id on every piece linked to the supplier.
func (r *Repository) DetachSupplier(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Furniture{}).
		Where("supplier_id = ?", supplierID).
		Update("supplier_id", nil)
	return res.RowsAffected, res.Error
}

// CountByKind returns the number of records per furniture kind.
func (r *Repository) CountByKind(ctx context.Context) (map[enums.FurnitureKind]int64, error) {
	var rows []struct {
		Kind  enums.FurnitureKind
		Total int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Furniture{}).
		Select("kind, COUNT(*) AS total").
		Group("kind").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	out := make(map[enums.FurnitureKind]int64, len(rows))
	for _, row := range rows {
		out[row.Kind] = row.Total
	}
	return out, nil
}

// TopSelling ranks furniture by the number of order rows referencing it.
func (r *Repository) TopSelling(ctx context.Context, limit int) ([]TopSellingRow, error) {
	var rows []TopSellingRow
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Select("furniture_id, COUNT(*) AS sold").
		Group("furniture_id").
		Order("sold DESC").
		Order("furniture_id ASC").
		Limit(limit).
		Scan(&rows).
		Error
	return rows, err
}

func likeFold(value string) string {
	return "%" + strings.ToLower(strings.TrimSpace(value)) + "%"
}

func applyFilter(q *gorm.DB, f Filter) *gorm.DB {
	if f.Kind != nil {
		q = q.Where("furniture.kind = ?", *f.Kind)
	}
	if f.NameContains != "" {
		q = q.Where("LOWER(furniture.name) LIKE ?", likeFold(f.NameContains))
	}
	if f.ManufacturerContains != "" {
		q = q.Where("LOWER(furniture.manufacturer) LIKE ?", likeFold(f.ManufacturerContains))
	}
	if f.MaterialContains != "" {
		q = q.Where("LOWER(furniture.material) LIKE ?", likeFold(f.MaterialContains))
	}
	if f.WoodType != nil {
		q = q.Where("furniture.wood_type = ?", *f.WoodType)
	}
	if f.SupplierID != nil {
		q = q.Where("furniture.supplier_id = ?", *f.SupplierID)
	}
	if f.SupplierCity != "" {
		q = q.Where("furniture.supplier_id IN (SELECT id FROM suppliers WHERE LOWER(city) = ?)",
			strings.ToLower(strings.TrimSpace(f.SupplierCity)))
	}
	if f.SupplierType != nil {
		q = q.Where("furniture.supplier_id IN (SELECT id FROM suppliers WHERE supplier_type = ?)", *f.SupplierType)
	}
	if f.MinPrice != nil {
		q = q.Where("furniture.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("furniture.price <= ?", *f.MaxPrice)
	}

	if !f.Bed.isZero() {
		q = applyBedFilter(q.Joins("JOIN beds ON beds.furniture_id = furniture.id"), f.Bed)
	}
	if !f.Chair.isZero() {
		q = applyChairFilter(q.Joins("JOIN chairs ON chairs.furniture_id = furniture.id"), f.Chair)
	}
	if !f.Sofa.isZero() {
		q = applySofaFilter(q.Joins("JOIN sofas ON sofas.furniture_id = furniture.id"), f.Sofa)
	}
	if !f.Table.isZero() {
		q = applyTableFilter(q.Joins("JOIN furniture_tables ON furniture_tables.furniture_id = furniture.id"), f.Table)
	}
	if !f.Misc.isZero() {
		q = applyMiscFilter(q.Joins("JOIN misc_furniture ON misc_furniture.furniture_id = furniture.id"), f.Misc)
	}
	return q.Select("furniture.*")
}

func applyBedFilter(q *gorm.DB, f BedFilter) *gorm.DB {
	if f.SizeContains != "" {
		q = q.Where("LOWER(beds.size) LIKE ?", likeFold(f.SizeContains))
	}
	if len(f.Sizes) > 0 {
		sizes := make([]string, len(f.Sizes))
		for i, s := range f.Sizes {
			sizes[i] = strings.ToLower(strings.TrimSpace(s))
		}
		q = q.Where("LOWER(TRIM(beds.size)) IN ?", sizes)
	}
	if f.MattressTypeContains != "" {
		q = q.Where("LOWER(beds.mattress_type) LIKE ?", likeFold(f.MattressTypeContains))
	}
	if f.HasHeadboard != nil {
		q = q.Where("beds.has_headboard = ?", *f.HasHeadboard)
	}
	if f.HasFootboard != nil {
		q = q.Where("beds.has_footboard = ?", *f.HasFootboard)
	}
	if f.HasStorageDrawers != nil {
		q = q.Where("beds.has_storage_drawers = ?", *f.HasStorageDrawers)
	}
	if f.IsAdjustable != nil {
		q = q.Where("beds.is_adjustable = ?", *f.IsAdjustable)
	}
	return q
}

func applyChairFilter(q *gorm.DB, f ChairFilter) *gorm.DB {
	if f.StyleContains != "" {
		q = q.Where("LOWER(chairs.chair_style) LIKE ?", likeFold(f.StyleContains))
	}
	if f.HasArmrests != nil {
		q = q.Where("chairs.has_armrests = ?", *f.HasArmrests)
	}
	if f.IsAdjustable != nil {
		q = q.Where("chairs.is_adjustable = ?", *f.IsAdjustable)
	}
	if f.HasWheels != nil {
		q = q.Where("chairs.has_wheels = ?", *f.HasWheels)
	}
	if f.MinSeating != nil {
		q = q.Where("chairs.seating_capacity >= ?", *f.MinSeating)
	}
	return q
}

func applySofaFilter(q *gorm.DB, f SofaFilter) *gorm.DB {
	if f.UpholsteryContains != "" {
		q = q.Where("LOWER(sofas.upholstery_type) LIKE ?", likeFold(f.UpholsteryContains))
	}
	if f.IsConvertible != nil {
		q = q.Where("sofas.is_convertible = ?", *f.IsConvertible)
	}
	if f.HasRecliners != nil {
		q = q.Where("sofas.has_recliners = ?", *f.HasRecliners)
	}
	if f.MinSeating != nil {
		q = q.Where("sofas.seating_capacity >= ?", *f.MinSeating)
	}
	if f.Cushions != nil {
		q = q.Where("sofas.number_of_cushions = ?", *f.Cushions)
	}
	return q
}

func applyTableFilter(q *gorm.DB, f TableFilter) *gorm.DB {
	if f.Shape != "" {
		q = q.Where("LOWER(furniture_tables.shape) = ?", strings.ToLower(strings.TrimSpace(f.Shape)))
	}
	if f.IsExtendable != nil {
		q = q.Where("furniture_tables.is_extendable = ?", *f.IsExtendable)
	}
	if f.HasGlassTop != nil {
		q = q.Where("furniture_tables.has_glass_top = ?", *f.HasGlassTop)
	}
	if f.MinSeating != nil {
		q = q.Where("furniture_tables.seating_capacity >= ?", *f.MinSeating)
	}
	if f.HeightBelow != nil {
		q = q.Where("furniture_tables.height < ?", *f.HeightBelow)
	}
	if f.Length != nil {
		q = q.Where("furniture_tables.length = ?", *f.Length)
	}
	if f.Width != nil {
		q = q.Where("furniture_tables.width = ?", *f.Width)
	}
	return q
}

func applyMiscFilter(q *gorm.DB, f MiscFilter) *gorm.DB {
	if f.CategoryContains != "" {
		q = q.Where("LOWER(misc_furniture.category) LIKE ?", likeFold(f.CategoryContains))
	}
	if f.DescriptionContains != "" {
		q = q.Where("LOWER(misc_furniture.description) LIKE ?", likeFold(f.DescriptionContains))
	}
	if f.AttributeName != "" {
		if f.AttributeValue != nil {
			q = q.Where("EXISTS (SELECT 1 FROM misc_attributes ma WHERE ma.furniture_id = furniture.id AND ma.name = ? AND ma.value = ?)",
				f.AttributeName, *f.AttributeValue)
		} else {
			q = q.Where("EXISTS (SELECT 1 FROM misc_attributes ma WHERE ma.furniture_id = furniture.id AND ma.name = ?)", f.AttributeName)
		}
	}
	if f.ModifierName != "" || f.ModifierAbove != nil {
		sub := "EXISTS (SELECT 1 FROM misc_price_modifiers mp WHERE mp.furniture_id = furniture.id"
		args := []any{}
		if f.ModifierName != "" {
			sub += " AND mp.name = ?"
			args = append(args, f.ModifierName)
		}
		if f.ModifierAbove != nil {
			sub += " AND mp.value > ?"
			args = append(args, *f.ModifierAbove)
		}
		q = q.Where(sub+")", args...)
	}
	return q
}

package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/totofurniture/furnistore-backend/pkg/db/models"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
	"github.com/totofurniture/furnistore-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

type listQuery struct {
	filter Filter
	cursor *pagination.Cursor
	limit  int
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func withItems(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Items.Furniture")
}

// Create inserts the order row followed by its item rows.
func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		return nil, err
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	if err := r.CreateItems(ctx, order.Items); err != nil {
		return nil, err
	}
	return order, nil
}

// Save writes the order row only. Item rows are managed separately.
func (r *repository) Save(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error
}

func (r *repository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&items).Error
}

func (r *repository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", itemID).Delete(&models.OrderItem{}).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := withItems(r.db.WithContext(ctx)).First(&order, "orders.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindForUpdate loads the order with its row locked until the surrounding
// transaction ends. SQLite serializes writers, so the lock is postgres only.
func (r *repository) FindForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	q := r.db.WithContext(ctx)
	if q.Dialector != nil && q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "orders"}})
	}
	var order models.Order
	if err := withItems(q).First(&order, "orders.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) Find(ctx context.Context, filter Filter) ([]models.Order, error) {
	var rows []models.Order
	err := withItems(applyFilter(r.db.WithContext(ctx).Model(&models.Order{}), filter)).
		Order("orders.order_date DESC").
		Order("orders.id DESC").
		Find(&rows).
		Error
	return rows, err
}

// List returns a cursor page ordered by creation time, newest first.
func (r *repository) List(ctx context.Context, opts listQuery) ([]models.Order, error) {
	query := applyFilter(r.db.WithContext(ctx).Model(&models.Order{}), opts.filter)

	var rows []models.Order
	err := withItems(query).
		Scopes(pagination.After("orders", opts.cursor)).
		Limit(opts.limit).
		Find(&rows).
		Error
	return rows, err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&models.Order{}).Error
}

func (r *repository) CountByStatus(ctx context.Context, status enums.OrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

package customers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/totofurniture/furnistore-backend/internal/repo"
	"github.com/totofurniture/furnistore-backend/pkg/db/models"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
)

// Repository exposes customer persistence operations.
type Repository struct {
	repo.Store[models.Customer]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Store: repo.NewStore[models.Customer](db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Store: r.Bind(tx)}
}

func (r *Repository) Update(ctx context.Context, c *models.Customer) (*models.Customer, error) {
	return r.Save(ctx, c)
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return r.ByID(ctx, id)
}

func (r *Repository) Find(ctx context.Context, filter Filter) ([]models.Customer, error) {
	var rows []models.Customer
	err := applyFilter(r.Table(ctx), filter).
		Order("last_name ASC").
		Order("first_name ASC").
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

// Delete removes the customer together with its orders and their item rows.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.DB(ctx)
	orderIDs := db.Model(&models.Order{}).Select("id").Where("customer_id = ?", id)
	if err := db.Where("order_id IN (?)", orderIDs).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	if err := db.Where("customer_id = ?", id).Delete(&models.Order{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&models.Customer{}).Error
}

func (r *Repository) OrderCount(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Order{}).Where("customer_id = ?", id).Count(&count).Error
	return count, err
}

// FindIdleSince lists active customers with no order dated on or after cutoff.
func (r *Repository) FindIdleSince(ctx context.Context, cutoff time.Time) ([]models.Customer, error) {
	var rows []models.Customer
	err := r.DB(ctx).
		Where("status = ?", enums.CustomerStatusActive).
		Where("NOT EXISTS (SELECT 1 FROM orders WHERE orders.customer_id = customers.id AND orders.order_date >= ?)", cutoff.UTC()).
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

// FindUpgradeCandidates lists non-VIP customers with at least minOrders orders.
func (r *Repository) FindUpgradeCandidates(ctx context.Context, minOrders int) ([]models.Customer, error) {
	var rows []models.Customer
	err := r.DB(ctx).
		Where("customer_type <> ?", enums.CustomerTypeVIP).
		Where(orderCountSQL+" >= ?", minOrders).
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.CustomerStatus) error {
	return r.SetColumn(ctx, id, "status", status)
}

func (r *Repository) UpdateType(ctx context.Context, id uuid.UUID, customerType enums.CustomerType) error {
	return r.SetColumn(ctx, id, "customer_type", customerType)
}

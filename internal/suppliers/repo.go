package suppliers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/totofurniture/furnistore-backend/internal/repo"
	"github.com/totofurniture/furnistore-backend/pkg/db/models"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
)

// Repository exposes supplier persistence operations.
type Repository struct {
	repo.Store[models.Supplier]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Store: repo.NewStore[models.Supplier](db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Store: r.Bind(tx)}
}

func (r *Repository) Update(ctx context.Context, s *models.Supplier) (*models.Supplier, error) {
	return r.Save(ctx, s)
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	return r.ByID(ctx, id)
}

func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Supplier, error) {
	var rows []models.Supplier
	if len(ids) == 0 {
		return rows, nil
	}
	err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

// Find applies the SQL part of the filter, then the list-column part.
func (r *Repository) Find(ctx context.Context, filter Filter) ([]models.Supplier, error) {
	var rows []models.Supplier
	err := applyFilter(r.Table(ctx), filter).
		Order("company_name ASC").
		Order("id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	out := rows[:0]
	for i := range rows {
		if filter.matchesLists(&rows[i]) {
			out = append(out, rows[i])
		}
	}
	return out, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.SupplierStatus) error {
	return r.SetColumn(ctx, id, "status", status)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.Supplier{}).Error
}

func (r *Repository) CountByStatus(ctx context.Context, status enums.SupplierStatus) (int64, error) {
	var count int64
	err := r.Table(ctx).Where("status = ?", status).Count(&count).Error
	return count, err
}

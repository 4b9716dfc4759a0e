package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/totofurniture/furnistore-backend/internal/repo"
	"github.com/totofurniture/furnistore-backend/pkg/db/models"
)

// Repository is the append-only store behind an order's payment history.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, event *models.LedgerEvent) error
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.LedgerEvent, error)
}

type gormLedger struct {
	rows repo.Store[models.LedgerEvent]
}

func NewRepository(db *gorm.DB) Repository {
	return gormLedger{rows: repo.NewStore[models.LedgerEvent](db)}
}

func (g gormLedger) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return g
	}
	return gormLedger{rows: g.rows.Bind(tx)}
}

func (g gormLedger) Create(ctx context.Context, event *models.LedgerEvent) error {
	_, err := g.rows.Create(ctx, event)
	return err
}

// ListByOrderID returns entries in the order they were recorded.
func (g gormLedger) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.LedgerEvent, error) {
	var entries []models.LedgerEvent
	err := g.rows.Table(ctx).
		Where("order_id = ?", orderID).
		Order("created_at, id").
		Find(&entries).Error
	return entries, err
}

// Package ledger keeps the append-only payment history of orders.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/totofurniture/furnistore-backend/pkg/db/models"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
	pkgerrors "github.com/totofurniture/furnistore-backend/pkg/errors"
)

// Service records and reads ledger events.
type Service interface {
	// RecordEvent writes with tx when it is non-nil so the entry commits
	// together with the order change.
	RecordEvent(ctx context.Context, tx *gorm.DB, input RecordInput) (*models.LedgerEvent, error)
	History(ctx context.Context, orderID uuid.UUID) (*History, error)
}

// RecordInput captures the immutable data a ledger event requires.
type RecordInput struct {
	OrderID          uuid.UUID
	CustomerID       uuid.UUID
	Type             enums.LedgerEventType
	PaymentStatus    enums.PaymentStatus
	Amount           float64
	AdvancePayment   float64
	RemainingPayment float64
	Metadata         json.RawMessage
}

// Entry is the API view of a ledger row.
type Entry struct {
	ID               uuid.UUID             `json:"id"`
	Type             enums.LedgerEventType `json:"type"`
	PaymentStatus    enums.PaymentStatus   `json:"payment_status"`
	Amount           float64               `json:"amount"`
	AdvancePayment   float64               `json:"advance_payment"`
	RemainingPayment float64               `json:"remaining_payment"`
	Metadata         json.RawMessage       `json:"metadata,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
}

// History is an order's ledger with the sum of recorded amounts.
type History struct {
	OrderID       uuid.UUID `json:"order_id"`
	TotalReceived float64   `json:"total_received"`
	Entries       []Entry   `json:"entries"`
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) RecordEvent(ctx context.Context, tx *gorm.DB, input RecordInput) (*models.LedgerEvent, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.Invalid("order_id", "is required")
	}
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.Invalid("customer_id", "is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.Invalid("type", fmt.Sprintf("invalid ledger event type %q", input.Type))
	}
	if input.Amount < 0 {
		return nil, pkgerrors.Invalid("amount", "must not be negative")
	}

	event := &models.LedgerEvent{
		OrderID:          input.OrderID,
		CustomerID:       input.CustomerID,
		Type:             input.Type,
		PaymentStatus:    input.PaymentStatus,
		Amount:           input.Amount,
		AdvancePayment:   input.AdvancePayment,
		RemainingPayment: input.RemainingPayment,
		Metadata:         input.Metadata,
	}
	if err := s.repo.WithTx(tx).Create(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert ledger event")
	}
	return event, nil
}

func (s *service) History(ctx context.Context, orderID uuid.UUID) (*History, error) {
	rows, err := s.repo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list ledger events")
	}
	total := decimal.Zero
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		total = total.Add(decimal.NewFromFloat(row.Amount))
		entries = append(entries, Entry{
			ID:               row.ID,
			Type:             row.Type,
			PaymentStatus:    row.PaymentStatus,
			Amount:           row.Amount,
			AdvancePayment:   row.AdvancePayment,
			RemainingPayment: row.RemainingPayment,
			Metadata:         row.Metadata,
			CreatedAt:        row.CreatedAt,
		})
	}
	return &History{
		OrderID:       orderID,
		TotalReceived: total.Round(2).InexactFloat64(),
		Entries:       entries,
	}, nil
}

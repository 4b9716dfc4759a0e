package orders

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/totofurniture/furnistore-backend/internal/customers"
	"github.com/totofurniture/furnistore-backend/internal/furniture"
	"github.com/totofurniture/furnistore-backend/internal/ledger"
	"github.com/totofurniture/furnistore-backend/pkg/db/dbtest"
	"github.com/totofurniture/furnistore-backend/pkg/db/models"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
	"github.com/totofurniture/furnistore-backend/pkg/logger"
	"github.com/totofurniture/furnistore-backend/pkg/outbox"
	"github.com/totofurniture/furnistore-backend/pkg/outbox/payloads"
)

type failingEmitter struct{}

func (failingEmitter) Emit(context.Context, *gorm.DB, outbox.DomainEvent) error {
	return errors.New("outbox table missing")
}

func newEventFixture(t *testing.T, events outbox.Emitter) (fixture, *outbox.Repository, ledger.Service) {
	t.Helper()
	client, conn := dbtest.Client(t)
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	outboxRepo := outbox.NewRepository(conn)
	if events == nil {
		events = outbox.NewService(outboxRepo, logg)
	}
	ledgerSvc, err := ledger.NewService(ledger.NewRepository(conn))
	require.NoError(t, err)

	svc, err := NewService(ServiceParams{
		Repo:      NewRepository(conn),
		Tx:        client,
		Customers: customers.NewRepository(conn),
		Furniture: furniture.NewRepository(conn),
		Events:    events,
		Ledger:    ledgerSvc,
		Logger:    logg,
		Now:       func() time.Time { return fixedNow },
	})
	require.NoError(t, err)

	c := &models.Customer{
		FirstName:        "Sana",
		LastName:         "Malik",
		RegistrationDate: fixedNow,
		Status:           enums.CustomerStatusActive,
		CustomerType:     enums.CustomerTypeRegular,
	}
	require.NoError(t, conn.Create(c).Error)
	return fixture{svc: svc, conn: conn, customer: c.ID}, outboxRepo, ledgerSvc
}

func decodeEvent[T any](t *testing.T, row models.OutboxEvent) T {
	t.Helper()
	var envelope outbox.PayloadEnvelope
	require.NoError(t, json.Unmarshal(row.Payload, &envelope))
	var out T
	require.NoError(t, json.Unmarshal(envelope.Data, &out))
	return out
}

func TestService_EmitsOrderEvents(t *testing.T) {
	f, outboxRepo, _ := newEventFixture(t, nil)
	ctx := context.Background()
	a := f.chair(t, 1000)
	b := f.chair(t, 1250)

	order, err := f.svc.Create(ctx, CreateInput{CustomerID: f.customer, FurnitureIDs: []uuid.UUID{a, b}, Details: Details{SalesPerson: strPtr("Bilal")}})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, order.ID, enums.OrderStatusConfirmed)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, order.ID, enums.OrderStatusConfirmed)
	require.NoError(t, err)
	_, err = f.svc.ApplyPayment(ctx, order.ID, PaymentInput{Status: enums.PaymentStatusPartial, Amount: 250})
	require.NoError(t, err)
	_, err = f.svc.PlanInstallments(ctx, order.ID, 4)
	require.NoError(t, err)

	rows, err := outboxRepo.ListByAggregate(ctx, order.ID)
	require.NoError(t, err)
	types := make([]enums.OutboxEventType, 0, len(rows))
	for _, row := range rows {
		types = append(types, row.EventType)
	}
	assert.Equal(t, []enums.OutboxEventType{
		enums.EventOrderCreated,
		enums.EventOrderStatusChanged,
		enums.EventOrderPaymentApplied,
		enums.EventOrderInstallmentsPlanned,
	}, types, "repeating a status emits nothing")

	created := decodeEvent[payloads.OrderCreatedEvent](t, rows[0])
	assert.Equal(t, 2250.0, created.TotalAmount)
	assert.Equal(t, []uuid.UUID{a, b}, created.FurnitureIDs)
	assert.Equal(t, "Bilal", *created.SalesPerson)

	changed := decodeEvent[payloads.OrderStatusChangedEvent](t, rows[1])
	assert.Equal(t, enums.OrderStatusPending, changed.PreviousStatus)
	assert.Equal(t, enums.OrderStatusConfirmed, changed.Status)

	planned := decodeEvent[payloads.OrderInstallmentsPlannedEvent](t, rows[3])
	assert.Equal(t, 4, planned.Months)
	assert.Equal(t, 500.0, planned.MonthlyAmount)
}

func TestService_RecordsPaymentLedger(t *testing.T) {
	f, _, ledgerSvc := newEventFixture(t, nil)
	ctx := context.Background()
	a := f.chair(t, 900)

	order, err := f.svc.Create(ctx, CreateInput{CustomerID: f.customer, FurnitureIDs: []uuid.UUID{a}})
	require.NoError(t, err)
	_, err = f.svc.ApplyPayment(ctx, order.ID, PaymentInput{Status: enums.PaymentStatusAdvancePaid, Amount: 300})
	require.NoError(t, err)
	_, err = f.svc.ApplyPayment(ctx, order.ID, PaymentInput{Status: enums.PaymentStatusDefaulted})
	require.NoError(t, err)
	_, err = f.svc.ApplyPayment(ctx, order.ID, PaymentInput{Status: enums.PaymentStatusPartial, Amount: 600})
	require.NoError(t, err)

	history, err := ledgerSvc.History(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, history.Entries, 3)
	assert.Equal(t, enums.LedgerEventPayment, history.Entries[0].Type)
	assert.Equal(t, enums.PaymentStatusPartial, history.Entries[0].PaymentStatus)
	assert.Equal(t, 600.0, history.Entries[0].RemainingPayment)
	assert.Equal(t, enums.LedgerEventStatusUpdate, history.Entries[1].Type)
	assert.Equal(t, enums.PaymentStatusDefaulted, history.Entries[1].PaymentStatus)
	assert.Equal(t, enums.LedgerEventSettlement, history.Entries[2].Type)
	assert.Equal(t, 900.0, history.TotalReceived)
}

func TestService_OutboxFailureRollsBackOrder(t *testing.T) {
	f, _, _ := newEventFixture(t, failingEmitter{})
	ctx := context.Background()
	a := f.chair(t, 500)

	_, err := f.svc.Create(ctx, CreateInput{CustomerID: f.customer, FurnitureIDs: []uuid.UUID{a}})
	require.Error(t, err)

	var count int64
	require.NoError(t, f.conn.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

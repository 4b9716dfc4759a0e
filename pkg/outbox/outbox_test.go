package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/totofurniture/furnistore-backend/pkg/db/dbtest"
	"github.com/totofurniture/furnistore-backend/pkg/db/models"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
	"github.com/totofurniture/furnistore-backend/pkg/logger"
)

func newTestService(t *testing.T) (*Service, *Repository, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	return NewService(repo, logger.New(logger.Options{ServiceName: "outbox-test"})), repo, conn
}

func TestEmitWritesEnvelope(t *testing.T) {
	svc, repo, conn := newTestService(t)
	ctx := context.Background()
	orderID := uuid.New()
	sales := "Ayesha"

	err := conn.Transaction(func(tx *gorm.DB) error {
		return svc.Emit(ctx, tx, DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   orderID,
			Actor:         &ActorRef{Service: "api", SalesPerson: &sales},
			Data:          map[string]any{"order_id": orderID},
		})
	})
	require.NoError(t, err)

	rows, err := repo.ListByAggregate(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Nil(t, rows[0].PublishedAt)

	var envelope PayloadEnvelope
	require.NoError(t, json.Unmarshal(rows[0].Payload, &envelope))
	require.Equal(t, CurrentVersion, envelope.Version)
	require.NotEmpty(t, envelope.EventID)
	require.False(t, envelope.OccurredAt.IsZero())
	require.Equal(t, "api", envelope.Actor.Service)
	require.JSONEq(t, `{"order_id":"`+orderID.String()+`"}`, string(envelope.Data))

	pending, err := repo.CountPending(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, pending)
}

func TestEmitRollsBackWithTransaction(t *testing.T) {
	svc, repo, conn := newTestService(t)
	orderID := uuid.New()

	err := conn.Transaction(func(tx *gorm.DB) error {
		if err := svc.Emit(context.Background(), tx, DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   orderID,
			Data:          struct{}{},
		}); err != nil {
			return err
		}
		return errors.New("order update failed")
	})
	require.Error(t, err)

	rows, err := repo.ListByAggregate(context.Background(), orderID)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestEmitValidatesEvent(t *testing.T) {
	svc, _, conn := newTestService(t)
	ctx := context.Background()

	require.Error(t, svc.Emit(ctx, nil, DomainEvent{}))
	require.Error(t, svc.Emit(ctx, conn, DomainEvent{
		EventType:     "order_archived",
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
	}))
	require.Error(t, svc.Emit(ctx, conn, DomainEvent{
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
	}))
}

func TestEmitIfNotExists(t *testing.T) {
	svc, repo, conn := newTestService(t)
	customerID := uuid.New()
	event := DomainEvent{
		EventType:     enums.EventCustomerVIPUpgraded,
		AggregateType: enums.AggregateCustomer,
		AggregateID:   customerID,
		Data:          map[string]int{"order_count": 5},
	}
	for i := 0; i < 2; i++ {
		require.NoError(t, svc.EmitIfNotExists(context.Background(), conn, event))
	}
	rows, err := repo.ListByAggregate(context.Background(), customerID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestPublishLifecycle(t *testing.T) {
	svc, repo, conn := newTestService(t)
	ctx := context.Background()

	ids := make([]uuid.UUID, 3)
	for i := range ids {
		ids[i] = uuid.New()
		require.NoError(t, svc.Emit(ctx, conn, DomainEvent{
			EventType:     enums.EventOrderPaymentApplied,
			AggregateType: enums.AggregateOrder,
			AggregateID:   ids[i],
			Data:          map[string]float64{"amount": float64(i)},
		}))
	}

	batch, err := repo.FetchUnpublishedForPublish(conn, 10, 3)
	require.NoError(t, err)
	require.Len(t, batch, 3)
	require.Equal(t, ids[0], batch[0].AggregateID)

	require.NoError(t, repo.MarkPublishedTx(conn, batch[0].ID))
	require.NoError(t, repo.MarkFailedTx(conn, batch[1].ID, errors.New("pubsub unavailable")))
	require.NoError(t, repo.MarkTerminalTx(conn, batch[2].ID, errors.New("bad payload"), 3))

	batch, err = repo.FetchUnpublishedForPublish(conn, 10, 3)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	require.Equal(t, ids[1], batch[0].AggregateID)
	require.Equal(t, 1, batch[0].AttemptCount)
	require.Equal(t, "pubsub unavailable", *batch[0].LastError)

	_, err = repo.FetchUnpublishedForPublish(nil, 10, 3)
	require.Error(t, err)

	deleted, err := repo.DeletePublishedBefore(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Zero(t, deleted)

	deleted, err = repo.DeletePublishedBefore(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)

	pending, err := repo.CountPending(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, pending)
}

func TestDLQRepository(t *testing.T) {
	conn := dbtest.Open(t)
	dlq := NewDLQRepository(conn)
	ctx := context.Background()

	eventID := uuid.New()
	msg := strings.Repeat("x", 2000)
	require.NoError(t, dlq.InsertTx(conn, models.OutboxDLQ{
		EventID:       eventID,
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`{}`),
		ErrorReason:   enums.OutboxDLQReasonMaxAttempts,
		ErrorMessage:  &msg,
		AttemptCount:  10,
	}))

	entry, err := dlq.FindByEventID(ctx, eventID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.Len(t, *entry.ErrorMessage, 1024)
	require.False(t, entry.FailedAt.IsZero())

	missing, err := dlq.FindByEventID(ctx, uuid.New())
	require.NoError(t, err)
	require.Nil(t, missing)

	rows, err := dlq.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

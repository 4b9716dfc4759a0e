package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/totofurniture/furnistore-backend/internal/analytics/types"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
	"github.com/totofurniture/furnistore-backend/pkg/logger"
	"github.com/totofurniture/furnistore-backend/pkg/outbox"
)

func TestBuildEnvelope(t *testing.T) {
	svc := newTestService(t, &stubHandler{}, &stubManager{})
	eventID := uuid.NewString()
	payload := outbox.PayloadEnvelope{
		Version:    1,
		EventID:    eventID,
		OccurredAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Data:       json.RawMessage(`{"order_id":"ord-1"}`),
	}
	msg := buildMessage(payload, map[string]string{
		"event_type":     "order_created",
		"aggregate_type": "order",
		"aggregate_id":   " ord-1 ",
	})

	env, err := svc.buildEnvelope(msg)
	if err != nil {
		t.Fatalf("build envelope: %v", err)
	}
	if env.EventType != enums.EventOrderCreated {
		t.Fatalf("unexpected event type %v", env.EventType)
	}
	if env.AggregateType != enums.AggregateOrder {
		t.Fatalf("unexpected aggregate type %v", env.AggregateType)
	}
	if env.AggregateID != "ord-1" {
		t.Fatalf("unexpected aggregate id %s", env.AggregateID)
	}
	if env.EventID != eventID || env.Version != 1 {
		t.Fatalf("unexpected envelope %+v", env)
	}
	if !env.OccurredAt.Equal(payload.OccurredAt) {
		t.Fatalf("unexpected occurred at %v", env.OccurredAt)
	}
}

func TestBuildEnvelopeFallsBackToAttributes(t *testing.T) {
	svc := newTestService(t, &stubHandler{}, &stubManager{})
	created := time.Date(2026, 4, 2, 8, 30, 0, 0, time.UTC)
	msg := buildMessage(outbox.PayloadEnvelope{Data: json.RawMessage(`{}`)}, map[string]string{
		"event_id":       "evt-attr",
		"event_type":     "customer_vip_upgraded",
		"aggregate_type": "customer",
		"aggregate_id":   "cust-1",
		"created_at":     created.Format(time.RFC3339Nano),
	})

	env, err := svc.buildEnvelope(msg)
	require.NoError(t, err)
	require.Equal(t, "evt-attr", env.EventID)
	require.True(t, env.OccurredAt.Equal(created))
}

func TestBuildEnvelopeRejects(t *testing.T) {
	svc := newTestService(t, &stubHandler{}, &stubManager{})
	base := map[string]string{"event_type": "order_created", "aggregate_type": "order", "aggregate_id": "x"}
	cases := map[string]map[string]string{
		"unknown event type": {"event_type": "furniture_restocked", "aggregate_type": "order", "aggregate_id": "x"},
		"bad aggregate":      {"event_type": "order_created", "aggregate_type": "vendor", "aggregate_id": "x"},
		"missing aggregate":  {"event_type": "order_created", "aggregate_type": "order"},
		"missing event id":   base,
	}
	for name, attrs := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.buildEnvelope(buildMessage(outbox.PayloadEnvelope{}, attrs))
			require.Error(t, err)
		})
	}
}

func TestProcessHandlesNewEvent(t *testing.T) {
	manager := &stubManager{}
	handler := &stubHandler{}
	rec := &stubRecorder{}
	svc := newTestService(t, handler, manager)
	svc.metrics = rec

	res := svc.process(context.Background(), buildAnalyticsMessage(t))
	require.False(t, res.nack)
	require.True(t, handler.called)
	require.Equal(t, enums.EventOrderCreated, handler.envelope.EventType)
	require.Len(t, manager.checked, 1)
	require.Equal(t, []string{"order_created:handled"}, rec.outcomes)
}

func TestProcessAlreadyProcessed(t *testing.T) {
	manager := &stubManager{checkResult: true}
	handler := &stubHandler{}
	svc := newTestService(t, handler, manager)

	res := svc.process(context.Background(), buildAnalyticsMessage(t))
	if res.nack {
		t.Fatalf("expected ack, got nack")
	}
	if handler.called {
		t.Fatal("handler should not be invoked when already processed")
	}
	if len(manager.checked) != 1 {
		t.Fatalf("expected check once, got %d", len(manager.checked))
	}
}

func TestProcessIdempotencyErrorRetries(t *testing.T) {
	manager := &stubManager{checkErr: errors.New("redis down")}
	handler := &stubHandler{}
	svc := newTestService(t, handler, manager)

	res := svc.process(context.Background(), buildAnalyticsMessage(t))
	require.True(t, res.nack)
	require.False(t, handler.called)
}

func TestProcessHandlerErrorRetries(t *testing.T) {
	manager := &stubManager{}
	handler := &stubHandler{err: errors.New("boom")}
	svc := newTestService(t, handler, manager)

	res := svc.process(context.Background(), buildAnalyticsMessage(t))
	if !res.nack {
		t.Fatalf("expected nack on handler error")
	}
	if len(manager.deleted) != 1 {
		t.Fatalf("expected idempotency delete on failure")
	}
}

func TestProcessInvalidEnvelope(t *testing.T) {
	manager := &stubManager{}
	handler := &stubHandler{}
	svc := newTestService(t, handler, manager)

	res := svc.process(context.Background(), &gcppubsub.Message{Data: []byte("invalid json")})
	if res.nack {
		t.Fatalf("invalid envelope should ack")
	}
	if handler.called || len(manager.checked) != 0 {
		t.Fatal("invalid envelope must not reach the handler or the idempotency store")
	}
}

func TestProcessUnsupportedEvent(t *testing.T) {
	manager := &stubManager{}
	handler := &stubHandler{err: fmt.Errorf("%w: x", types.ErrUnsupportedEventType)}
	svc := newTestService(t, handler, manager)

	res := svc.process(context.Background(), buildAnalyticsMessage(t))
	if res.nack {
		t.Fatalf("unsupported event should ack")
	}
	if len(manager.deleted) != 0 {
		t.Fatalf("idempotency delete should not run")
	}
}

func TestNewServiceValidation(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "analytics-test", Output: io.Discard})
	_, err := NewService(nil, &stubHandler{}, &stubManager{}, nil, logg)
	require.Error(t, err)
}

func buildAnalyticsMessage(t *testing.T) *gcppubsub.Message {
	t.Helper()
	payload := outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now().UTC(),
		Data:       json.RawMessage(`{"order_id":"abc-123"}`),
	}
	return buildMessage(payload, map[string]string{
		"event_type":     "order_created",
		"aggregate_type": "order",
		"aggregate_id":   "abc-123",
	})
}

func buildMessage(payload outbox.PayloadEnvelope, attrs map[string]string) *gcppubsub.Message {
	data, _ := json.Marshal(payload)
	return &gcppubsub.Message{
		ID:         "msg-1",
		Data:       data,
		Attributes: attrs,
	}
}

func newTestService(t *testing.T, handler Handler, manager *stubManager) *Service {
	t.Helper()
	return &Service{
		handler: handler,
		manager: manager,
		metrics: noopRecorder{},
		logg:    logger.New(logger.Options{ServiceName: "analytics-test", Output: io.Discard}),
	}
}

type stubHandler struct {
	called   bool
	envelope types.Envelope
	err      error
}

func (h *stubHandler) Handle(_ context.Context, envelope types.Envelope) error {
	h.called = true
	h.envelope = envelope
	return h.err
}

type stubManager struct {
	checkResult bool
	checkErr    error
	checked     []uuid.UUID
	deleted     []uuid.UUID
}

func (s *stubManager) CheckAndMarkProcessed(_ context.Context, _ string, eventID uuid.UUID) (bool, error) {
	s.checked = append(s.checked, eventID)
	return s.checkResult, s.checkErr
}

func (s *stubManager) Delete(_ context.Context, _ string, eventID uuid.UUID) error {
	s.deleted = append(s.deleted, eventID)
	return nil
}

type stubRecorder struct {
	outcomes []string
}

func (r *stubRecorder) ObserveAnalytics(eventType, result string) {
	r.outcomes = append(r.outcomes, eventType+":"+result)
}

package router

import (
	"context"
	"errors"
	"fmt"

	"github.com/totofurniture/furnistore-backend/internal/analytics/types"
	"github.com/totofurniture/furnistore-backend/internal/analytics/writer"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
	"github.com/totofurniture/furnistore-backend/pkg/logger"
	"github.com/totofurniture/furnistore-backend/pkg/outbox/registry"
)

// Writer delivers sales event rows to the warehouse.
type Writer interface {
	InsertSalesEvent(ctx context.Context, row types.SalesEventRow) error
}

// RowBuilder maps a decoded outbox payload onto a sales event row.
type RowBuilder func(envelope types.Envelope, payload any) (types.SalesEventRow, error)

// Router decodes envelopes and writes one sales row per supported event.
type Router struct {
	decoders *registry.DecoderRegistry
	builders map[enums.OutboxEventType]RowBuilder
	writer   Writer
	logg     *logger.Logger
}

// NewRouter wires the default builders; overrides replace the builder of an
// already supported event type.
func NewRouter(w Writer, logg *logger.Logger, overrides map[enums.OutboxEventType]RowBuilder) (*Router, error) {
	if w == nil {
		return nil, errors.New("writer is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}

	builders := map[enums.OutboxEventType]RowBuilder{
		enums.EventOrderCreated:             orderCreatedRow,
		enums.EventOrderStatusChanged:       orderStatusChangedRow,
		enums.EventOrderPaymentApplied:      paymentAppliedRow,
		enums.EventOrderInstallmentsPlanned: installmentsPlannedRow,
		enums.EventCustomerVIPUpgraded:      vipUpgradedRow,
	}
	for eventType, custom := range overrides {
		if _, ok := builders[eventType]; !ok || custom == nil {
			continue
		}
		builders[eventType] = custom
	}

	return &Router{
		decoders: registry.NewPayloadDecoders(),
		builders: builders,
		writer:   w,
		logg:     logg,
	}, nil
}

// Handle decodes the envelope payload and writes the resulting row.
func (r *Router) Handle(ctx context.Context, envelope types.Envelope) error {
	build, ok := r.builders[envelope.EventType]
	if !ok {
		return fmt.Errorf("%w: %s", types.ErrUnsupportedEventType, envelope.EventType)
	}
	if len(envelope.Payload) == 0 {
		return fmt.Errorf("empty payload for %s", envelope.EventType)
	}

	version := envelope.Version
	if version <= 0 {
		version = 1
	}
	payload, err := r.decoders.Decode(envelope.EventType, version, envelope.Payload)
	if err != nil {
		return fmt.Errorf("decode %s payload: %w", envelope.EventType, err)
	}

	row, err := build(envelope, payload)
	if err != nil {
		return err
	}
	if row.Payload, err = writer.EncodeJSON(envelope.Payload); err != nil {
		return err
	}

	if err := r.writer.InsertSalesEvent(ctx, row); err != nil {
		return fmt.Errorf("write %s row: %w", envelope.EventType, err)
	}
	r.logg.Info(r.logg.WithFields(ctx, map[string]any{
		"event_id":    envelope.EventID,
		"event_type":  envelope.EventType,
		"customer_id": row.CustomerID,
	}), "sales event written")
	return nil
}

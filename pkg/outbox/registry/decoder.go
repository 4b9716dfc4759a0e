package registry

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/totofurniture/furnistore-backend/pkg/enums"
	"github.com/totofurniture/furnistore-backend/pkg/outbox/payloads"
)

// DecoderFunc turns an envelope's data into a typed payload.
type DecoderFunc func(payload json.RawMessage) (any, error)

type decoderKey struct {
	eventType enums.OutboxEventType
	version   int
}

// DecoderRegistry stores versioned payload decoders for consumers.
type DecoderRegistry struct {
	mtx      sync.RWMutex
	decoders map[decoderKey]DecoderFunc
}

func NewDecoderRegistry() *DecoderRegistry {
	return &DecoderRegistry{decoders: make(map[decoderKey]DecoderFunc)}
}

func (r *DecoderRegistry) Register(eventType enums.OutboxEventType, version int, decoder DecoderFunc) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.decoders[decoderKey{eventType: eventType, version: version}] = decoder
}

func (r *DecoderRegistry) Decode(eventType enums.OutboxEventType, version int, payload json.RawMessage) (any, error) {
	r.mtx.RLock()
	decoder, ok := r.decoders[decoderKey{eventType: eventType, version: version}]
	r.mtx.RUnlock()
	if !ok {
		return nil, fmt.Errorf("decoder not registered for %s@v%d", eventType, version)
	}
	return decoder(payload)
}

// JSONDecoder returns a DecoderFunc that unmarshals into a fresh T.
func JSONDecoder[T any]() DecoderFunc {
	return func(payload json.RawMessage) (any, error) {
		var out T
		if err := json.Unmarshal(payload, &out); err != nil {
			return nil, err
		}
		return &out, nil
	}
}

// NewPayloadDecoders registers version 1 decoders for every outbox payload.
func NewPayloadDecoders() *DecoderRegistry {
	reg := NewDecoderRegistry()
	reg.Register(enums.EventOrderCreated, 1, JSONDecoder[payloads.OrderCreatedEvent]())
	reg.Register(enums.EventOrderStatusChanged, 1, JSONDecoder[payloads.OrderStatusChangedEvent]())
	reg.Register(enums.EventOrderPaymentApplied, 1, JSONDecoder[payloads.OrderPaymentAppliedEvent]())
	reg.Register(enums.EventOrderInstallmentsPlanned, 1, JSONDecoder[payloads.OrderInstallmentsPlannedEvent]())
	reg.Register(enums.EventCustomerVIPUpgraded, 1, JSONDecoder[payloads.CustomerVIPUpgradedEvent]())
	return reg
}

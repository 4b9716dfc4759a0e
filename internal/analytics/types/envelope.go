// Package types holds the shapes shared by the analytics router, writer and
// worker.
package types

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/totofurniture/furnistore-backend/pkg/enums"
)

// ErrUnsupportedEventType marks events the analytics pipeline ignores.
var ErrUnsupportedEventType = errors.New("unsupported analytics event type")

// Envelope is an outbox event as received from Pub/Sub.
type Envelope struct {
	EventID       string                    `json:"event_id"`
	EventType     enums.OutboxEventType     `json:"event_type"`
	AggregateType enums.OutboxAggregateType `json:"aggregate_type"`
	AggregateID   string                    `json:"aggregate_id"`
	Version       int                       `json:"version"`
	OccurredAt    time.Time                 `json:"occurred_at"`
	Payload       json.RawMessage           `json:"payload"`
}

package outbox

import (
	"encoding/json"
	"time"
)

// ActorRef identifies the process and, when known, the staff member behind
// an event.
type ActorRef struct {
	Service     string  `json:"service"`
	SalesPerson *string `json:"salesPerson,omitempty"`
}

// PayloadEnvelope is the stable payload structure stored in outbox_events.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Actor      *ActorRef       `json:"actor,omitempty"`
	Data       json.RawMessage `json:"data"`
}

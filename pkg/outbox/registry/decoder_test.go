package registry

import (
	"encoding/json"
	"testing"

	"github.com/totofurniture/furnistore-backend/pkg/enums"
	"github.com/totofurniture/furnistore-backend/pkg/outbox/payloads"
)

func TestPayloadDecoders(t *testing.T) {
	reg := NewPayloadDecoders()

	out, err := reg.Decode(enums.EventOrderInstallmentsPlanned, 1, json.RawMessage(`{"months":3,"monthly_amount":333.33}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	planned, ok := out.(*payloads.OrderInstallmentsPlannedEvent)
	if !ok || planned.Months != 3 || planned.MonthlyAmount != 333.33 {
		t.Fatalf("unexpected output %#v", out)
	}

	if _, err := reg.Decode(enums.EventOrderInstallmentsPlanned, 2, json.RawMessage(`{}`)); err == nil {
		t.Fatal("expected unregistered version to fail")
	}
	if _, err := reg.Decode(enums.EventOrderCreated, 1, json.RawMessage(`{"total_amount":"x"}`)); err == nil {
		t.Fatal("expected type mismatch to fail")
	}
}

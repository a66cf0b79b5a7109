package rabbitmq

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fulfillment/internal/core/ports"
)

func Test_NopAuditPublisher_DropsEvents(t *testing.T) {
	publisher := NopAuditPublisher{}

	err := publisher.Publish(t.Context(), ports.AuditEvent{Kind: "order.placed"})

	assert.NoError(t, err)
}

func Test_AuditEvent_WireShapeOmitsEmptyFields(t *testing.T) {
	occurredAt := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	event := ports.AuditEvent{
		Kind:       "order.transitioned",
		OrderID:    "0195b7a0-0000-7000-8000-000000000001",
		Detail:     map[string]any{"from": "confirmed", "to": "processing"},
		OccurredAt: occurredAt,
	}

	body, err := json.Marshal(event)
	assert.NoError(t, err)

	var decoded map[string]any
	assert.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "order.transitioned", decoded["kind"])
	assert.Equal(t, "0195b7a0-0000-7000-8000-000000000001", decoded["orderId"])
	assert.NotContains(t, decoded, "agentId")
	assert.Equal(t, "processing", decoded["detail"].(map[string]any)["to"])
}

package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// InventoryService is the outbound contract to the stock system. Orders hold
// an inventory reservation from placement until payment expiry, cancellation,
// or delivery; releasing twice is prevented on the order aggregate, so
// implementations need not be idempotent.
type InventoryService interface {
	// Reserve places a reservation for the order's items.
	Reserve(ctx context.Context, orderID kernel.UUID) error

	// Release returns a reservation to free stock.
	Release(ctx context.Context, orderID kernel.UUID) error
}

// AuditEvent is a fulfillment fact published to the audit stream: a status
// transition, a webhook application, an assignment, a delivery attempt.
type AuditEvent struct {
	// Kind classifies the event, e.g. order.transitioned or webhook.applied.
	Kind string `json:"kind"`
	// OrderID is the order the event concerns, empty for fleet-level events.
	OrderID string `json:"orderId,omitempty"`
	// AgentID is the agent involved, if any.
	AgentID string `json:"agentId,omitempty"`
	// Detail carries event-specific fields.
	Detail map[string]any `json:"detail,omitempty"`
	// OccurredAt is when the fact was produced.
	OccurredAt time.Time `json:"occurredAt"`
}

// AuditPublisher publishes fulfillment facts to the audit stream. Publishing
// is best effort: command handlers log failures and proceed, the business
// transaction never fails on audit delivery.
type AuditPublisher interface {
	Publish(ctx context.Context, event AuditEvent) error
}

package payment

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// Gateway event types this system understands. Unknown types are recorded
// for the idempotency ledger but produce no state change.
const (
	// EventPaymentCaptured reports a successful capture.
	EventPaymentCaptured = "payment.captured"
	// EventPaymentFailed reports a failed capture attempt.
	EventPaymentFailed = "payment.failed"
	// EventOrderPaid is the gateway's order-level confirmation, treated the
	// same as a capture.
	EventOrderPaid = "order.paid"
)

// ErrEventIsNotConstructed is returned when using an improperly initialized Event.
var ErrEventIsNotConstructed = errors.New("Event must be created via NewEvent or RestoreEvent constructor")

// IsKnownEventType reports whether the gateway event type has a handler.
func IsKnownEventType(eventType string) bool {
	switch eventType {
	case EventPaymentCaptured, EventPaymentFailed, EventOrderPaid:
		return true
	}
	return false
}

// Event is a processed gateway webhook notification.
//
// The gateway-assigned event id is the idempotency key: the repository holds
// a uniqueness constraint on it, so recording the same event twice fails and
// the duplicate is acknowledged without side effects. The raw payload is kept
// for audit and replay.
type Event struct {
	// id is the internal identifier of the record
	id kernel.UUID
	// eventID is the gateway-assigned identifier, unique per notification
	eventID string
	// eventType is the gateway event type, e.g. payment.captured
	eventType string
	// payload is the raw webhook body as received
	payload string
	// processedAt is when the event was applied
	processedAt time.Time
	// guard ensures the event was properly constructed
	guard guard.ConstructorGuard
}

// NewEvent creates a webhook event record at the moment of processing.
//
// Parameters:
//   - id: internal record identifier
//   - eventID: gateway-assigned event identifier (required, the idempotency key)
//   - eventType: gateway event type (required)
//   - payload: raw webhook body
func NewEvent(id kernel.UUID, eventID, eventType, payload string) (*Event, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if eventID == "" {
		return nil, errs.NewValueIsRequiredError("event id")
	}
	if eventType == "" {
		return nil, errs.NewValueIsRequiredError("event type")
	}

	return &Event{
		id:          id,
		eventID:     eventID,
		eventType:   eventType,
		payload:     payload,
		processedAt: time.Now().UTC(),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// RestoreEvent reconstructs a webhook event record from persistence.
func RestoreEvent(id kernel.UUID, eventID, eventType, payload string, processedAt time.Time) (*Event, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if eventID == "" {
		return nil, errs.NewValueIsRequiredError("event id")
	}

	return &Event{
		id:          id,
		eventID:     eventID,
		eventType:   eventType,
		payload:     payload,
		processedAt: processedAt,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate checks if the Event was properly constructed via a constructor.
func (e *Event) Validate() error {
	if e == nil {
		return ErrEventIsNotConstructed
	}
	return e.guard.Validate(ErrEventIsNotConstructed)
}

// ID returns the internal record identifier.
func (e *Event) ID() kernel.UUID {
	return e.id
}

// EventID returns the gateway-assigned event identifier.
func (e *Event) EventID() string {
	return e.eventID
}

// EventType returns the gateway event type.
func (e *Event) EventType() string {
	return e.eventType
}

// Payload returns the raw webhook body as received.
func (e *Event) Payload() string {
	return e.payload
}

// ProcessedAt returns when the event was applied.
func (e *Event) ProcessedAt() time.Time {
	return e.processedAt
}

package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrIngestPaymentWebhookCommandIsNotConstructed = errors.New(
	"IngestPaymentWebhookCommand must be created via NewIngestPaymentWebhookCommand constructor",
)

// IngestPaymentWebhookCommand represents an authenticated gateway webhook to
// apply. The transport layer verifies the signature before constructing this
// command; by the time a handler sees it the notification is trusted.
//
// Example:
//
//	cmd, err := NewIngestPaymentWebhookCommand(
//	    "evt_81", payment.EventPaymentCaptured,
//	    "gw_order_81", "gw_pay_17", 16000, "", rawBody)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
//	if result.Duplicate {
//	    // acknowledged replay, nothing changed
//	}
type IngestPaymentWebhookCommand struct { //nolint:recvcheck //using for validation
	eventID          string
	eventType        string
	gatewayOrderID   string
	gatewayPaymentID string
	amount           int64
	failureReason    string
	payload          string

	guard guard.ConstructorGuard
}

// NewIngestPaymentWebhookCommand creates a command to apply a gateway webhook.
// Requires the gateway event id (the idempotency key), the event type, and
// the gateway order id the notification refers to. The amount is in minor
// units and only meaningful for capture events.
func NewIngestPaymentWebhookCommand(
	eventID, eventType, gatewayOrderID, gatewayPaymentID string,
	amount int64,
	failureReason string,
	payload string,
) (IngestPaymentWebhookCommand, error) {
	cmd := IngestPaymentWebhookCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setEventID(eventID),
		cmd.setEventType(eventType),
		cmd.setGatewayOrderID(gatewayOrderID),
		cmd.setAmount(amount),
	); err != nil {
		return IngestPaymentWebhookCommand{}, err
	}

	cmd.gatewayPaymentID = gatewayPaymentID
	cmd.failureReason = failureReason
	cmd.payload = payload

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrIngestPaymentWebhookCommandIsNotConstructed if validation fails.
func (c IngestPaymentWebhookCommand) Validate() error {
	return c.guard.Validate(ErrIngestPaymentWebhookCommandIsNotConstructed)
}

// EventID returns the gateway-assigned event identifier.
func (c IngestPaymentWebhookCommand) EventID() string {
	return c.eventID
}

// EventType returns the gateway event type.
func (c IngestPaymentWebhookCommand) EventType() string {
	return c.eventType
}

// GatewayOrderID returns the gateway order id the notification refers to.
func (c IngestPaymentWebhookCommand) GatewayOrderID() string {
	return c.gatewayOrderID
}

// GatewayPaymentID returns the gateway payment id, empty for failure events.
func (c IngestPaymentWebhookCommand) GatewayPaymentID() string {
	return c.gatewayPaymentID
}

// Amount returns the captured amount in minor units.
func (c IngestPaymentWebhookCommand) Amount() int64 {
	return c.amount
}

// FailureReason returns the gateway's failure description, if any.
func (c IngestPaymentWebhookCommand) FailureReason() string {
	return c.failureReason
}

// Payload returns the raw webhook body for the audit ledger.
func (c IngestPaymentWebhookCommand) Payload() string {
	return c.payload
}

// IsKnownType reports whether this event type has a handler.
func (c IngestPaymentWebhookCommand) IsKnownType() bool {
	return payment.IsKnownEventType(c.eventType)
}

func (c *IngestPaymentWebhookCommand) setEventID(eventID string) error {
	if eventID == "" {
		return errs.NewValueIsRequiredError("event id")
	}

	c.eventID = eventID
	return nil
}

func (c *IngestPaymentWebhookCommand) setEventType(eventType string) error {
	if eventType == "" {
		return errs.NewValueIsRequiredError("event type")
	}

	c.eventType = eventType
	return nil
}

func (c *IngestPaymentWebhookCommand) setGatewayOrderID(gatewayOrderID string) error {
	if gatewayOrderID == "" {
		return errs.NewValueIsRequiredError("gateway order id")
	}

	c.gatewayOrderID = gatewayOrderID
	return nil
}

func (c *IngestPaymentWebhookCommand) setAmount(amount int64) error {
	if amount < 0 {
		return errs.NewValueIsInvalidError("amount")
	}

	c.amount = amount
	return nil
}

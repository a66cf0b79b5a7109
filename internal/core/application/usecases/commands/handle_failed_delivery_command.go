package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrHandleFailedDeliveryCommandIsNotConstructed = errors.New(
	"HandleFailedDeliveryCommand must be created via NewHandleFailedDeliveryCommand constructor",
)

// HandleFailedDeliveryCommand applies the retry policy after a failed
// delivery attempt: reschedule automatically to the next business day while
// the bounded retry cap allows, otherwise leave the order awaiting manual
// resolution.
type HandleFailedDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	reason         string
	autoReschedule bool

	guard guard.ConstructorGuard
}

// NewHandleFailedDeliveryCommand creates a command to apply the retry policy.
// With autoReschedule false the order is left in its attempted state for an
// operator to resolve, regardless of remaining retries.
func NewHandleFailedDeliveryCommand(
	orderID kernel.UUID,
	reason string,
	autoReschedule bool,
) (HandleFailedDeliveryCommand, error) {
	cmd := HandleFailedDeliveryCommand{
		autoReschedule: autoReschedule,
		guard:          guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return HandleFailedDeliveryCommand{}, err
	}
	if err := cmd.setReason(reason); err != nil {
		return HandleFailedDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c HandleFailedDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrHandleFailedDeliveryCommandIsNotConstructed)
}

// OrderID returns the order the failed attempt belongs to.
func (c HandleFailedDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Reason returns why the delivery failed.
func (c HandleFailedDeliveryCommand) Reason() string {
	return c.reason
}

// AutoReschedule reports whether the caller wants an automatic retry booked.
func (c HandleFailedDeliveryCommand) AutoReschedule() bool {
	return c.autoReschedule
}

func (c *HandleFailedDeliveryCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *HandleFailedDeliveryCommand) setReason(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}

	c.reason = reason
	return nil
}

package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand represents an operational request to move an order
// to another lifecycle status, e.g. the warehouse marking an order Shipped.
// The transition table guards which moves are legal; this command carries
// intent, not authority.
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.Status
	actor   string
	note    string

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand creates a command to move an order to target.
// Validates the order id, the target status, and the acting party. Delivered
// is not accepted as a target; completion goes through RecordDeliveryAttempt.
func NewTransitionOrderCommand(
	orderID kernel.UUID,
	target order.Status,
	actor, note string,
) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{
		note:  note,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
		cmd.setActor(actor),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the requested lifecycle status.
func (c TransitionOrderCommand) Target() order.Status {
	return c.target
}

// Actor returns who requested the transition.
func (c TransitionOrderCommand) Actor() string {
	return c.actor
}

// Note returns the optional operator note for the timeline.
func (c TransitionOrderCommand) Note() string {
	return c.note
}

func (c *TransitionOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	// Delivered is reached only by recording a successful delivery attempt,
	// which also settles the assigned agent's load and counters. An operator
	// shortcut here would strand the agent's capacity slot.
	if target == order.Delivered {
		return errs.NewValueIsInvalidErrorWithCause(
			"target",
			errors.New("delivered requires a recorded delivery attempt"),
		)
	}

	c.target = target
	return nil
}

func (c *TransitionOrderCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	c.actor = actor
	return nil
}

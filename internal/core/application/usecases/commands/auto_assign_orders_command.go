package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrAutoAssignOrdersCommandIsNotConstructed = errors.New(
	"AutoAssignOrdersCommand must be created via NewAutoAssignOrdersCommand constructor",
)

// AutoAssignOrdersCommand triggers one run of the automatic assignment
// engine, either over an explicit list of orders or over the queue of
// confirmed orders that have no agent yet.
//
// Example:
//
//	cmd, _ := NewAutoAssignOrdersCommand([]kernel.UUID{orderID})
//	result, err := handler.Handle(ctx, cmd)
//	for orderID, outcome := range result.Outcomes {
//	    log.Printf("%s: %s", orderID, outcome)
//	}
type AutoAssignOrdersCommand struct { //nolint:recvcheck //using for validation
	orderIDs []kernel.UUID
	limit    int

	guard guard.ConstructorGuard
}

// NewAutoAssignOrdersCommand creates a command to assign the given orders,
// processed in the given sequence. Every id gets its own outcome in the
// result; an unknown or unplaceable order never fails the run for the rest.
func NewAutoAssignOrdersCommand(orderIDs []kernel.UUID) (AutoAssignOrdersCommand, error) {
	if len(orderIDs) == 0 {
		return AutoAssignOrdersCommand{}, errs.NewValueIsRequiredError("orderIDs")
	}
	for _, orderID := range orderIDs {
		if err := orderID.Validate(); err != nil {
			return AutoAssignOrdersCommand{}, err
		}
	}

	return AutoAssignOrdersCommand{
		orderIDs: orderIDs,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// NewAutoAssignQueuedOrdersCommand creates a command to scan the assignment
// queue and place up to limit waiting orders. Used by the background job.
func NewAutoAssignQueuedOrdersCommand(limit int) (AutoAssignOrdersCommand, error) {
	if limit <= 0 {
		return AutoAssignOrdersCommand{}, errs.NewValueIsRequiredError("limit")
	}

	return AutoAssignOrdersCommand{
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AutoAssignOrdersCommand) Validate() error {
	return c.guard.Validate(ErrAutoAssignOrdersCommandIsNotConstructed)
}

// OrderIDs returns the explicit orders to assign, in request order.
// Empty for a queue scan.
func (c AutoAssignOrdersCommand) OrderIDs() []kernel.UUID {
	return c.orderIDs
}

// Limit returns the maximum number of queued orders to assign in one scan.
// Zero when the command carries an explicit order list.
func (c AutoAssignOrdersCommand) Limit() int {
	return c.limit
}

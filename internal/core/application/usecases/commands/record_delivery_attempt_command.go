package commands

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrRecordDeliveryAttemptCommandIsNotConstructed = errors.New(
	"RecordDeliveryAttemptCommand must be created via NewRecordDeliveryAttemptCommand constructor",
)

// RecordDeliveryAttemptCommand represents an agent reporting the outcome of
// one delivery attempt: successful, failed, or rescheduled to a future date.
type RecordDeliveryAttemptCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	agentID       kernel.UUID
	status        order.AttemptStatus
	reason        string
	nextAttemptAt *time.Time

	guard guard.ConstructorGuard
}

// NewRecordDeliveryAttemptCommand creates a command to record an attempt.
// The reason is required for failed and rescheduled outcomes; nextAttemptAt
// is required for rescheduled outcomes and must be in the future, which the
// order aggregate enforces.
func NewRecordDeliveryAttemptCommand(
	orderID, agentID kernel.UUID,
	status order.AttemptStatus,
	reason string,
	nextAttemptAt *time.Time,
) (RecordDeliveryAttemptCommand, error) {
	cmd := RecordDeliveryAttemptCommand{
		reason:        reason,
		nextAttemptAt: nextAttemptAt,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setAgentID(agentID),
		cmd.setStatus(status),
	); err != nil {
		return RecordDeliveryAttemptCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordDeliveryAttemptCommand) Validate() error {
	return c.guard.Validate(ErrRecordDeliveryAttemptCommandIsNotConstructed)
}

// OrderID returns the order the attempt concerns.
func (c RecordDeliveryAttemptCommand) OrderID() kernel.UUID {
	return c.orderID
}

// AgentID returns the reporting agent.
func (c RecordDeliveryAttemptCommand) AgentID() kernel.UUID {
	return c.agentID
}

// Status returns the attempt outcome.
func (c RecordDeliveryAttemptCommand) Status() order.AttemptStatus {
	return c.status
}

// Reason returns the failure or reschedule reason.
func (c RecordDeliveryAttemptCommand) Reason() string {
	return c.reason
}

// NextAttemptAt returns the requested next attempt time, if any.
func (c RecordDeliveryAttemptCommand) NextAttemptAt() *time.Time {
	return c.nextAttemptAt
}

func (c *RecordDeliveryAttemptCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RecordDeliveryAttemptCommand) setAgentID(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return err
	}

	c.agentID = agentID
	return nil
}

func (c *RecordDeliveryAttemptCommand) setStatus(status order.AttemptStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}

	c.status = status
	return nil
}

package commands

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignAgentCommandIsNotConstructed = errors.New(
	"AssignAgentCommand must be created via NewAssignAgentCommand constructor",
)

// AssignAgentCommand represents a dispatcher's request to assign a specific
// agent to an order. The automatic path goes through AutoAssignOrdersCommand
// instead; this command is the manual override.
type AssignAgentCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	agentID     kernel.UUID
	estimatedAt *time.Time
	actor       string

	guard guard.ConstructorGuard
}

// NewAssignAgentCommand creates a command to assign agentID to orderID.
// The optional estimatedAt carries the promised delivery time.
func NewAssignAgentCommand(
	orderID, agentID kernel.UUID,
	estimatedAt *time.Time,
	actor string,
) (AssignAgentCommand, error) {
	cmd := AssignAgentCommand{
		estimatedAt: estimatedAt,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setAgentID(agentID),
		cmd.setActor(actor),
	); err != nil {
		return AssignAgentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignAgentCommand) Validate() error {
	return c.guard.Validate(ErrAssignAgentCommandIsNotConstructed)
}

// OrderID returns the order to assign.
func (c AssignAgentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// AgentID returns the agent to assign the order to.
func (c AssignAgentCommand) AgentID() kernel.UUID {
	return c.agentID
}

// EstimatedAt returns the promised delivery time, if any.
func (c AssignAgentCommand) EstimatedAt() *time.Time {
	return c.estimatedAt
}

// Actor returns who made the assignment.
func (c AssignAgentCommand) Actor() string {
	return c.actor
}

func (c *AssignAgentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AssignAgentCommand) setAgentID(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return err
	}

	c.agentID = agentID
	return nil
}

func (c *AssignAgentCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	c.actor = actor
	return nil
}

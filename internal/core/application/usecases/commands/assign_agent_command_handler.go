package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ErrAgentNotFound is returned when a command references an agent id that
// does not exist.
var ErrAgentNotFound = errors.New("agent not found")

// AssignAgentCommandHandler executes a manual agent assignment.
// Both sides of the association change in one transaction: the agent takes
// the order into its active set (enforcing capacity) and the order records
// the assignment. Domain errors such as agent.ErrCapacityExceeded and
// order.ErrInvalidState pass through unchanged.
type AssignAgentCommandHandler struct {
	uowFactory AssignmentUoWFactory
	audit      ports.AuditPublisher
}

// NewAssignAgentCommandHandler creates a handler for manual assignment.
func NewAssignAgentCommandHandler(
	uowFactory AssignmentUoWFactory,
	audit ports.AuditPublisher,
) AssignAgentCommandHandler {
	return AssignAgentCommandHandler{
		uowFactory: uowFactory,
		audit:      audit,
	}
}

// Handle loads both aggregates, performs the assignment, and persists them.
// If the order already has an agent, that agent's capacity slot is released
// first so reassignment never leaks slots.
func (h AssignAgentCommandHandler) Handle(ctx context.Context, cmd AssignAgentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	agentRepo := uow.AgentRepository()

	target, err := orderRepo.Get(ctx, cmd.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	assignee, err := agentRepo.Get(ctx, cmd.AgentID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrAgentNotFound
	}
	if err != nil {
		return err
	}

	// Release the previous holder before the new intake.
	if prev := target.Delivery().AgentID(); prev != nil && !prev.IsEqual(cmd.AgentID()) {
		prevAgent, prevErr := agentRepo.Get(ctx, *prev)
		if prevErr == nil {
			if prevErr = prevAgent.ReleaseOrder(target.ID()); prevErr != nil {
				return prevErr
			}
			if prevErr = agentRepo.Update(ctx, prevAgent); prevErr != nil {
				return prevErr
			}
		} else if !errors.Is(prevErr, errs.ErrObjectNotFound) {
			return prevErr
		}
	}

	if err = assignee.TakeOrder(target.ID()); err != nil {
		return err
	}

	if err = target.AssignAgent(assignee.ID(), cmd.EstimatedAt(), cmd.Actor(), false); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, target); err != nil {
		return err
	}

	if err = agentRepo.Update(ctx, assignee); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if pubErr := h.audit.Publish(ctx, ports.AuditEvent{
		Kind:    "order.assigned",
		OrderID: target.ID().String(),
		AgentID: assignee.ID().String(),
		Detail: map[string]any{
			"actor":     cmd.Actor(),
			"automated": false,
		},
		OccurredAt: time.Now().UTC(),
	}); pubErr != nil {
		slog.Warn("failed to publish audit event", "kind", "order.assigned", "error", pubErr)
	}

	return nil
}

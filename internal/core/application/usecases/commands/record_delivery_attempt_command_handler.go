package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// RecordDeliveryAttemptCommandHandler records delivery attempt outcomes.
//
// A successful attempt completes the order: the agent's capacity slot is
// released and a successful outcome is added to its performance record. A
// failed attempt keeps the slot (the same agent retries) and records a
// failed outcome. A rescheduled attempt changes only the order's delivery
// record. Order and agent are updated in one transaction.
type RecordDeliveryAttemptCommandHandler struct {
	uowFactory AssignmentUoWFactory
	audit      ports.AuditPublisher
}

// NewRecordDeliveryAttemptCommandHandler creates a handler for attempt recording.
func NewRecordDeliveryAttemptCommandHandler(
	uowFactory AssignmentUoWFactory,
	audit ports.AuditPublisher,
) RecordDeliveryAttemptCommandHandler {
	return RecordDeliveryAttemptCommandHandler{
		uowFactory: uowFactory,
		audit:      audit,
	}
}

// Handle loads the order and the reporting agent, records the attempt on the
// order, and applies the agent-side effects of the outcome.
func (h RecordDeliveryAttemptCommandHandler) Handle(
	ctx context.Context,
	cmd RecordDeliveryAttemptCommand,
) error {
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

	reporter, err := agentRepo.Get(ctx, cmd.AgentID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrAgentNotFound
	}
	if err != nil {
		return err
	}

	attempt, err := target.RecordAttempt(cmd.Status(), cmd.Reason(), cmd.AgentID(), cmd.NextAttemptAt())
	if err != nil {
		return err
	}

	switch cmd.Status() {
	case order.AttemptSuccessful:
		if err = reporter.ReleaseOrder(target.ID()); err != nil {
			return err
		}
		reporter.RecordDeliveryOutcome(true)
	case order.AttemptFailed:
		reporter.RecordDeliveryOutcome(false)
	}

	if err = orderRepo.Update(ctx, target); err != nil {
		return err
	}
	if err = agentRepo.Update(ctx, reporter); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if pubErr := h.audit.Publish(ctx, ports.AuditEvent{
		Kind:    "delivery.attempted",
		OrderID: target.ID().String(),
		AgentID: reporter.ID().String(),
		Detail: map[string]any{
			"attempt": attempt.Number(),
			"status":  attempt.Status().String(),
			"reason":  attempt.Reason(),
		},
		OccurredAt: time.Now().UTC(),
	}); pubErr != nil {
		slog.Warn("failed to publish audit event", "kind", "delivery.attempted", "error", pubErr)
	}

	return nil
}

package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// CancelOrderCommandHandler cancels orders and unwinds their side effects:
// the agent capacity slot, the inventory reservation, and a captured payment
// marked for refund. Cancelling an already cancelled order is acknowledged
// without doing anything.
type CancelOrderCommandHandler struct {
	uowFactory AssignmentUoWFactory
	inventory  ports.InventoryService
	audit      ports.AuditPublisher
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(
	uowFactory AssignmentUoWFactory,
	inventory ports.InventoryService,
	audit ports.AuditPublisher,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		inventory:  inventory,
		audit:      audit,
	}
}

// Handle cancels the order. The refund amount is the captured amount when
// the payment completed, zero otherwise. The inventory release runs after a
// successful commit; the released flag on the aggregate keeps it from
// running twice.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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

	refund := kernel.ZeroMoney()
	if target.Payment().Status() == order.PaymentCompleted {
		refund = target.Payment().PaidAmount()
	}

	assignedAgent := target.Delivery().AgentID()

	changed, err := target.Cancel(cmd.Reason(), cmd.Actor(), refund)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	releaseStock := target.ReleaseReservation()

	if assignedAgent != nil {
		holder, agentErr := agentRepo.Get(ctx, *assignedAgent)
		if agentErr == nil {
			if agentErr = holder.ReleaseOrder(target.ID()); agentErr != nil {
				return agentErr
			}
			if agentErr = agentRepo.Update(ctx, holder); agentErr != nil {
				return agentErr
			}
		} else if !errors.Is(agentErr, errs.ErrObjectNotFound) {
			return agentErr
		}
	}

	if err = orderRepo.Update(ctx, target); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if releaseStock {
		if err = h.inventory.Release(ctx, target.ID()); err != nil {
			slog.Warn("failed to release inventory reservation for cancelled order",
				"orderId", target.ID().String(), "error", err)
		}
	}

	if pubErr := h.audit.Publish(ctx, ports.AuditEvent{
		Kind:    "order.cancelled",
		OrderID: target.ID().String(),
		Detail: map[string]any{
			"reason": cmd.Reason(),
			"actor":  cmd.Actor(),
			"refund": refund.Amount(),
		},
		OccurredAt: time.Now().UTC(),
	}); pubErr != nil {
		slog.Warn("failed to publish audit event", "kind", "order.cancelled", "error", pubErr)
	}

	return nil
}

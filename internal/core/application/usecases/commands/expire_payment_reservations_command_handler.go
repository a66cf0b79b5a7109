package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// ExpirePaymentReservationsCommandHandler releases the stock reservations
// of pending orders whose payment window elapsed.
//
// Expiry is a reservation release, not an order cancellation: the order
// stays Pending, so a late capture can still confirm it even though its
// stock is no longer held. Each order is swept in its own transaction so
// one failure does not hold up the rest, and the release flag on the order
// makes a repeated sweep a no-op.
type ExpirePaymentReservationsCommandHandler struct {
	uowFactory OrderUoWFactory
	inventory  ports.InventoryService
	audit      ports.AuditPublisher
	now        func() time.Time
}

// NewExpirePaymentReservationsCommandHandler creates a handler for the
// payment expiry sweep.
func NewExpirePaymentReservationsCommandHandler(
	uowFactory OrderUoWFactory,
	inventory ports.InventoryService,
	audit ports.AuditPublisher,
) ExpirePaymentReservationsCommandHandler {
	return ExpirePaymentReservationsCommandHandler{
		uowFactory: uowFactory,
		inventory:  inventory,
		audit:      audit,
		now:        time.Now,
	}
}

// Handle sweeps every pending-payment order older than the window.
// Returns the number of reservations released.
func (h ExpirePaymentReservationsCommandHandler) Handle(
	ctx context.Context,
	cmd ExpirePaymentReservationsCommand,
) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	cutoff := h.now().Add(-cmd.MaxAge())

	listUow := h.uowFactory.Create()
	if err := listUow.Begin(ctx); err != nil {
		return 0, err
	}
	stale, err := listUow.OrderRepository().GetAllPendingPaymentOlderThan(ctx, cutoff)
	if err != nil {
		_ = listUow.Rollback(ctx)
		return 0, err
	}
	if err = listUow.Commit(ctx); err != nil {
		return 0, err
	}

	released := 0
	for _, staleOrder := range stale {
		swept, expireErr := h.expireOne(ctx, staleOrder.ID())
		if expireErr != nil {
			slog.Warn("failed to expire payment reservation",
				"orderId", staleOrder.ID().String(), "error", expireErr)
			continue
		}
		if swept {
			released++
		}
	}

	return released, nil
}

// expireOne releases the reservation of a single stale order in its own
// transaction. Returns false when the order no longer qualifies or the
// reservation was already released.
func (h ExpirePaymentReservationsCommandHandler) expireOne(ctx context.Context, orderID kernel.UUID) (bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	target, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return false, err
	}

	// Re-check under the transaction; a capture may have landed since the sweep query.
	if target.Status() != order.Pending {
		return false, nil
	}

	if !target.ReleaseReservation() {
		return false, nil
	}

	if err = orderRepo.Update(ctx, target); err != nil {
		return false, err
	}
	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	if err = h.inventory.Release(ctx, target.ID()); err != nil {
		slog.Warn("failed to release inventory reservation for expired order",
			"orderId", target.ID().String(), "error", err)
	}

	if pubErr := h.audit.Publish(ctx, ports.AuditEvent{
		Kind:    "reservation.expired",
		OrderID: target.ID().String(),
		Detail: map[string]any{
			"placedAt": target.PlacedAt().Format(time.RFC3339),
		},
		OccurredAt: time.Now().UTC(),
	}); pubErr != nil {
		slog.Warn("failed to publish audit event", "kind", "reservation.expired", "error", pubErr)
	}

	return true, nil
}

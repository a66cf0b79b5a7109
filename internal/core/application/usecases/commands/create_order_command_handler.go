package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// CreateOrderCommandHandler handles the business logic for placing orders.
// Creates the order in Pending status, reserves inventory for its items, and
// publishes the placement to the audit stream.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, inventory, audit)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order placement failed: %w", err)
//	}
//	// Order is pending payment and its stock is reserved
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	inventory  ports.InventoryService
	audit      ports.AuditPublisher
}

// NewCreateOrderCommandHandler creates a handler for order placement.
// Requires an OrderUoWFactory for transactional persistence, the inventory
// service for stock reservation, and the audit publisher.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	inventory ports.InventoryService,
	audit ports.AuditPublisher,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		inventory:  inventory,
		audit:      audit,
	}
}

// Handle processes the order placement command.
// The inventory reservation is taken before the order is persisted; if the
// transaction fails after a successful reservation, the reservation is
// released again so stock is never leaked.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	items, err := cmd.DomainItems()
	if err != nil {
		return err
	}

	shipping, err := kernel.NewMoney(cmd.Shipping())
	if err != nil {
		return err
	}
	tax, err := kernel.NewMoney(cmd.Tax())
	if err != nil {
		return err
	}
	discount, err := kernel.NewMoney(cmd.Discount())
	if err != nil {
		return err
	}

	newOrder, err := order.NewOrder(
		cmd.OrderID(), cmd.Zone(), items,
		cmd.PaymentMethod(), cmd.GatewayOrderID(),
		shipping, tax, discount, cmd.Actor(),
	)
	if err != nil {
		return err
	}

	if err = h.inventory.Reserve(ctx, newOrder.ID()); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		h.releaseReservation(ctx, newOrder.ID())
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		h.releaseReservation(ctx, newOrder.ID())
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		h.releaseReservation(ctx, newOrder.ID())
		return err
	}

	h.publishPlaced(ctx, newOrder)
	return nil
}

// releaseReservation gives the stock back after a failed placement.
func (h CreateOrderCommandHandler) releaseReservation(ctx context.Context, orderID kernel.UUID) {
	if err := h.inventory.Release(ctx, orderID); err != nil {
		slog.Warn("failed to release inventory reservation after aborted placement",
			"orderId", orderID.String(), "error", err)
	}
}

func (h CreateOrderCommandHandler) publishPlaced(ctx context.Context, o *order.Order) {
	err := h.audit.Publish(ctx, ports.AuditEvent{
		Kind:    "order.placed",
		OrderID: o.ID().String(),
		Detail: map[string]any{
			"zone":  o.Zone(),
			"total": o.Pricing().Total().Amount(),
			"items": len(o.Items()),
		},
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Warn("failed to publish audit event", "kind", "order.placed", "error", err)
	}
}

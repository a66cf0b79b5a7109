package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ErrOrderNotFound is returned when a command references an order id that
// does not exist.
var ErrOrderNotFound = errors.New("order not found")

// TransitionOrderCommandHandler applies operator-driven lifecycle transitions.
// Illegal moves surface the domain's order.ErrInvalidTransition unchanged so
// the transport layer can map them to a client error.
type TransitionOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	audit      ports.AuditPublisher
}

// NewTransitionOrderCommandHandler creates a handler for lifecycle transitions.
func NewTransitionOrderCommandHandler(
	uowFactory OrderUoWFactory,
	audit ports.AuditPublisher,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		audit:      audit,
	}
}

// Handle loads the order, applies the transition, and persists the result.
func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) error {
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
	target, err := orderRepo.Get(ctx, cmd.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	from := target.Status()
	if err = target.TransitionTo(cmd.Target(), cmd.Actor(), cmd.Note(), false); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, target); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if pubErr := h.audit.Publish(ctx, ports.AuditEvent{
		Kind:    "order.transitioned",
		OrderID: target.ID().String(),
		Detail: map[string]any{
			"from":  from.String(),
			"to":    cmd.Target().String(),
			"actor": cmd.Actor(),
		},
		OccurredAt: time.Now().UTC(),
	}); pubErr != nil {
		slog.Warn("failed to publish audit event", "kind", "order.transitioned", "error", pubErr)
	}

	return nil
}

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

// HandleFailedDeliveryResult reports what the retry policy decided.
type HandleFailedDeliveryResult struct {
	// Rescheduled is true when an automatic reschedule was recorded.
	Rescheduled bool
	// NextAttemptAt is the scheduled retry time when Rescheduled is true.
	NextAttemptAt time.Time
	// ManualResolution is true when the retry cap is exhausted and the order
	// now needs an operator decision.
	ManualResolution bool
}

// HandleFailedDeliveryCommandHandler applies the bounded retry policy after
// a failed delivery attempt.
//
// While the order has automatic reschedules left and the caller asked for
// one, the handler books a retry for the next business day. When the caller
// opts out of automatic rescheduling, or once the cap is exhausted, the
// order is left in its attempted state and flagged for manual resolution;
// it is never cancelled automatically.
type HandleFailedDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	audit      ports.AuditPublisher
	now        func() time.Time
}

// NewHandleFailedDeliveryCommandHandler creates a handler for the retry policy.
func NewHandleFailedDeliveryCommandHandler(
	uowFactory OrderUoWFactory,
	audit ports.AuditPublisher,
) HandleFailedDeliveryCommandHandler {
	return HandleFailedDeliveryCommandHandler{
		uowFactory: uowFactory,
		audit:      audit,
		now:        time.Now,
	}
}

// Handle loads the order and either books the next automatic retry or flags
// the order for manual resolution. The order keeps its attempted delivery
// state on the manual path.
func (h HandleFailedDeliveryCommandHandler) Handle(
	ctx context.Context,
	cmd HandleFailedDeliveryCommand,
) (HandleFailedDeliveryResult, error) {
	if err := cmd.Validate(); err != nil {
		return HandleFailedDeliveryResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return HandleFailedDeliveryResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	target, err := orderRepo.Get(ctx, cmd.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return HandleFailedDeliveryResult{}, ErrOrderNotFound
	}
	if err != nil {
		return HandleFailedDeliveryResult{}, err
	}

	if !cmd.AutoReschedule() {
		h.publishOutcome(ctx, target, "manual_resolution", time.Time{})
		return HandleFailedDeliveryResult{ManualResolution: true}, nil
	}

	if !target.CanAutoReschedule() {
		h.publishOutcome(ctx, target, "manual_resolution", time.Time{})
		return HandleFailedDeliveryResult{ManualResolution: true}, nil
	}

	next := NextBusinessDay(h.now())
	if _, err = target.AutoReschedule(next, cmd.Reason()); err != nil {
		if errors.Is(err, order.ErrRescheduleLimitReached) {
			h.publishOutcome(ctx, target, "manual_resolution", time.Time{})
			return HandleFailedDeliveryResult{ManualResolution: true}, nil
		}
		return HandleFailedDeliveryResult{}, err
	}

	if err = orderRepo.Update(ctx, target); err != nil {
		return HandleFailedDeliveryResult{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return HandleFailedDeliveryResult{}, err
	}

	h.publishOutcome(ctx, target, "rescheduled", next)
	return HandleFailedDeliveryResult{Rescheduled: true, NextAttemptAt: next}, nil
}

func (h HandleFailedDeliveryCommandHandler) publishOutcome(
	ctx context.Context,
	target *order.Order,
	outcome string,
	next time.Time,
) {
	detail := map[string]any{"outcome": outcome}
	if !next.IsZero() {
		detail["nextAttemptAt"] = next.Format(time.RFC3339)
	}
	if err := h.audit.Publish(ctx, ports.AuditEvent{
		Kind:       "delivery.retry_policy",
		OrderID:    target.ID().String(),
		Detail:     detail,
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		slog.Warn("failed to publish audit event", "kind", "delivery.retry_policy", "error", err)
	}
}

// NextBusinessDay returns the same wall-clock time on the next weekday.
// A failure on Friday or Saturday books the retry for Monday.
func NextBusinessDay(from time.Time) time.Time {
	next := from.AddDate(0, 0, 1)
	for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ErrWebhookOrderNotFound is returned when no order matches the gateway order
// id in the notification.
var ErrWebhookOrderNotFound = errors.New("no order found for gateway order id")

// IngestPaymentWebhookResult reports what a webhook delivery did.
type IngestPaymentWebhookResult struct {
	// Applied is true when the order changed as a result of this delivery.
	Applied bool
	// Duplicate is true when the event id was already recorded; the delivery
	// is acknowledged without reprocessing.
	Duplicate bool
}

// IngestPaymentWebhookCommandHandler applies authenticated gateway webhooks
// to orders.
//
// Idempotency is layered: the event ledger catches exact redeliveries by
// event id, and the payment record's monotonic status catches distinct events
// that would re-apply an outcome (a second capture under a new event id is
// recorded but changes nothing). The ledger insert and the order mutation
// share one transaction.
type IngestPaymentWebhookCommandHandler struct {
	uowFactory WebhookUoWFactory
	audit      ports.AuditPublisher
}

// NewIngestPaymentWebhookCommandHandler creates a handler for webhook ingestion.
func NewIngestPaymentWebhookCommandHandler(
	uowFactory WebhookUoWFactory,
	audit ports.AuditPublisher,
) IngestPaymentWebhookCommandHandler {
	return IngestPaymentWebhookCommandHandler{
		uowFactory: uowFactory,
		audit:      audit,
	}
}

// Handle processes one webhook delivery.
//
// Returns {Duplicate: true} for a redelivered event id, {Applied: false} for
// unknown event types and out-of-order events that change nothing, and
// {Applied: true} when the order was updated. ErrWebhookOrderNotFound is
// returned when the gateway order id resolves to no order; the delivery is
// not recorded so the gateway retries after the order appears.
func (h IngestPaymentWebhookCommandHandler) Handle(
	ctx context.Context,
	cmd IngestPaymentWebhookCommand,
) (IngestPaymentWebhookResult, error) {
	if err := cmd.Validate(); err != nil {
		return IngestPaymentWebhookResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return IngestPaymentWebhookResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	event, err := payment.NewEvent(kernel.NewUUID(), cmd.EventID(), cmd.EventType(), cmd.Payload())
	if err != nil {
		return IngestPaymentWebhookResult{}, err
	}

	err = uow.WebhookEventRepository().Add(ctx, event)
	if errors.Is(err, ports.ErrEventAlreadyRecorded) {
		return IngestPaymentWebhookResult{Duplicate: true}, nil
	}
	if err != nil {
		return IngestPaymentWebhookResult{}, err
	}

	if !cmd.IsKnownType() {
		// Record the event so a redelivery is still detected, apply nothing.
		if err = uow.Commit(ctx); err != nil {
			return IngestPaymentWebhookResult{}, err
		}
		return IngestPaymentWebhookResult{}, nil
	}

	orderRepo := uow.OrderRepository()
	target, err := orderRepo.GetByGatewayOrderID(ctx, cmd.GatewayOrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return IngestPaymentWebhookResult{}, ErrWebhookOrderNotFound
	}
	if err != nil {
		return IngestPaymentWebhookResult{}, err
	}

	var applied bool
	switch cmd.EventType() {
	case payment.EventPaymentCaptured, payment.EventOrderPaid:
		amount, amountErr := kernel.NewMoney(cmd.Amount())
		if amountErr != nil {
			return IngestPaymentWebhookResult{}, amountErr
		}
		applied, err = target.ApplyPaymentCapture(cmd.GatewayPaymentID(), amount, time.Now())
		if err != nil {
			return IngestPaymentWebhookResult{}, err
		}
	case payment.EventPaymentFailed:
		applied = target.ApplyPaymentFailure(cmd.FailureReason())
	}

	if applied {
		if err = orderRepo.Update(ctx, target); err != nil {
			return IngestPaymentWebhookResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return IngestPaymentWebhookResult{}, err
	}

	if applied {
		h.publishApplied(ctx, cmd, target.ID().String())
	}

	return IngestPaymentWebhookResult{Applied: applied}, nil
}

func (h IngestPaymentWebhookCommandHandler) publishApplied(
	ctx context.Context,
	cmd IngestPaymentWebhookCommand,
	orderID string,
) {
	err := h.audit.Publish(ctx, ports.AuditEvent{
		Kind:    "webhook.applied",
		OrderID: orderID,
		Detail: map[string]any{
			"eventId":   cmd.EventID(),
			"eventType": cmd.EventType(),
		},
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Warn("failed to publish audit event", "kind", "webhook.applied", "error", err)
	}
}

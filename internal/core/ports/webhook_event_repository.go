package ports

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/payment"
)

// ErrEventAlreadyRecorded is returned by WebhookEventRepository.Add when an
// event with the same gateway event id was already recorded. Ingestion treats
// this as a duplicate delivery and acknowledges without reprocessing.
var ErrEventAlreadyRecorded = errors.New("webhook event already recorded")

// WebhookEventRepository is the idempotency ledger for gateway webhooks.
// Event ids are unique; the insert either claims the id or reports the
// duplicate.
type WebhookEventRepository interface {
	// Add records a processed webhook event. Returns ErrEventAlreadyRecorded
	// when the gateway event id was recorded before.
	Add(ctx context.Context, event *payment.Event) error

	// GetByEventID retrieves a recorded event by its gateway event id.
	GetByEventID(ctx context.Context, eventID string) (*payment.Event, error)
}

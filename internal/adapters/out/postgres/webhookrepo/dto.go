// Package webhookrepo persists the ledger of processed payment gateway
// events. The unique index on the gateway event id is what makes webhook
// ingestion idempotent under replays: a second insert of the same event id
// fails at the database level.
package webhookrepo

import (
	"time"

	"github.com/google/uuid"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"
)

// EventDTO represents the database structure for persisting processed
// webhook events.
type EventDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventID     string    `gorm:"uniqueIndex"`
	EventType   string
	Payload     string
	ProcessedAt time.Time
}

// TableName specifies the database table name for webhook events.
func (EventDTO) TableName() string {
	return "webhook_events"
}

// fromDomain converts a webhook event entity to its database representation.
func fromDomain(event *payment.Event) EventDTO {
	return EventDTO{
		ID:          event.ID().Bytes(),
		EventID:     event.EventID(),
		EventType:   event.EventType(),
		Payload:     event.Payload(),
		ProcessedAt: event.ProcessedAt(),
	}
}

// toDomain converts a database DTO to a webhook event entity using RestoreEvent.
func toDomain(dto EventDTO) (*payment.Event, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return payment.RestoreEvent(id, dto.EventID, dto.EventType, dto.Payload, dto.ProcessedAt)
}

package webhookrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// GormWebhookEventRepository implements WebhookEventRepository using GORM.
// Relies on gorm.Config.TranslateError so a unique-constraint violation on
// the event id surfaces as gorm.ErrDuplicatedKey across drivers.
type GormWebhookEventRepository struct {
	db *gorm.DB
}

// NewGormWebhookEventRepository creates a new GORM webhook event repository.
func NewGormWebhookEventRepository(db *gorm.DB) *GormWebhookEventRepository {
	return &GormWebhookEventRepository{db: db}
}

// Add records a processed event in the ledger.
// Returns ports.ErrEventAlreadyRecorded when the gateway event id was already
// recorded, which is the duplicate-delivery signal the ingestion handler
// keys on.
func (r *GormWebhookEventRepository) Add(ctx context.Context, event *payment.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	dto := fromDomain(event)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrEventAlreadyRecorded
		}
		return err
	}

	return nil
}

// GetByEventID retrieves a recorded event by its gateway event id.
func (r *GormWebhookEventRepository) GetByEventID(ctx context.Context, eventID string) (*payment.Event, error) {
	if eventID == "" {
		return nil, errs.NewValueIsRequiredError("event id")
	}

	var dto EventDTO
	if err := r.db.WithContext(ctx).First(&dto, "event_id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("webhook event", eventID)
		}
		return nil, err
	}

	return toDomain(dto)
}

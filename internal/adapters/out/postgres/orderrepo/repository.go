package orderrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database, including its lines and the seed
// timeline entry.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order using optimistic concurrency: the row is
// written only when the stored version still matches the aggregate's version.
// A version mismatch returns errs.ErrVersionIsInvalid so the caller can retry
// against fresh state.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	loadedVersion := dto.Version
	dto.Version = loadedVersion + 1

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, loadedVersion).
		Select("*").Omit(clause.Associations).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&OrderDTO{}).
			Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("order", aggregate.ID().String())
		}
		return errs.NewVersionIsInvalidErrorWithCause("order")
	}

	if err := r.replaceChildren(ctx, dto); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// replaceChildren rewrites the order's child rows. The lines, timeline, and
// attempt history are small per order, so full replacement is cheaper than
// diffing.
func (r *GormOrderRepository) replaceChildren(ctx context.Context, dto OrderDTO) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("order_id = ?", dto.ID).Delete(&ItemDTO{}).Error; err != nil {
		return err
	}
	if err := db.Where("order_id = ?", dto.ID).Delete(&TimelineEntryDTO{}).Error; err != nil {
		return err
	}
	if err := db.Where("order_id = ?", dto.ID).Delete(&AttemptDTO{}).Error; err != nil {
		return err
	}

	if len(dto.Items) > 0 {
		if err := db.Create(&dto.Items).Error; err != nil {
			return err
		}
	}
	if len(dto.Timeline) > 0 {
		if err := db.Create(&dto.Timeline).Error; err != nil {
			return err
		}
	}
	if len(dto.Attempts) > 0 {
		if err := db.Create(&dto.Attempts).Error; err != nil {
			return err
		}
	}

	return nil
}

// Get retrieves an order by ID with its lines, timeline, and attempt history.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.loadQuery(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByGatewayOrderID retrieves the order a payment webhook refers to.
func (r *GormOrderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*order.Order, error) {
	if gatewayOrderID == "" {
		return nil, errs.NewValueIsRequiredError("gateway order id")
	}

	var dto OrderDTO
	if err := r.loadQuery(ctx).First(&dto, "payment_gateway_order_id = ?", gatewayOrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", gatewayOrderID)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllAwaitingAssignment retrieves up to limit confirmed orders without an
// agent, oldest first.
func (r *GormOrderRepository) GetAllAwaitingAssignment(ctx context.Context, limit int) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.loadQuery(ctx).
		Where("status = ? AND delivery_agent_id IS NULL", order.Confirmed.String()).
		Order("placed_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return r.toDomainSlice(dtos)
}

// GetAllPendingPaymentOlderThan retrieves pending orders placed before the
// cutoff, for the payment expiry sweep.
func (r *GormOrderRepository) GetAllPendingPaymentOlderThan(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.loadQuery(ctx).
		Where("status = ? AND placed_at < ?", order.Pending.String(), cutoff).
		Order("placed_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return r.toDomainSlice(dtos)
}

// loadQuery preloads the child rows in their natural order.
func (r *GormOrderRepository) loadQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Timeline", func(db *gorm.DB) *gorm.DB { return db.Order("occurred_at, id") }).
		Preload("Attempts", func(db *gorm.DB) *gorm.DB { return db.Order("number") })
}

func (r *GormOrderRepository) toDomainSlice(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

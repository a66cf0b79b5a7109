// Package ports defines repository and collaborator interfaces for the
// fulfillment domain. These interfaces establish contracts between the domain
// layer and infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying orders based on
// their lifecycle status and assignment state.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The write is guarded by the aggregate's version: a concurrent update
	// since the load fails with errs.ErrVersionIsInvalid and nothing is
	// written.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with items, payment, delivery, and timeline.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByGatewayOrderID retrieves the order linked to a gateway order id.
	// Used by webhook ingestion to resolve gateway notifications.
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*order.Order, error)

	// GetAllAwaitingAssignment retrieves confirmed orders that have no agent
	// yet, ordered oldest first. Used by the automatic assignment engine.
	GetAllAwaitingAssignment(ctx context.Context, limit int) ([]*order.Order, error)

	// GetAllPendingPaymentOlderThan retrieves pending orders placed before
	// the cutoff whose payment never completed. Used by reservation expiry.
	GetAllPendingPaymentOlderThan(ctx context.Context, cutoff time.Time) ([]*order.Order, error)
}

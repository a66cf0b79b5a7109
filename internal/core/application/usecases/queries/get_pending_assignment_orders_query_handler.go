package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// GetPendingAssignmentOrdersQueryHandler retrieves the assignment queue from
// the database. Uses direct SQL for read performance in the CQRS pattern.
//
// Example:
//
//	handler := NewGetPendingAssignmentOrdersQueryHandler(db)
//	query := NewGetPendingAssignmentOrdersQuery()
//
//	waiting, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get assignment queue: %v", err)
//	    return err
//	}
type GetPendingAssignmentOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetPendingAssignmentOrdersQueryHandler creates a handler for assignment
// queue queries. Requires a GORM database connection for query execution.
func NewGetPendingAssignmentOrdersQueryHandler(db *gorm.DB) GetPendingAssignmentOrdersQueryHandler {
	return GetPendingAssignmentOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve confirmed orders without an agent.
// Results are sorted oldest first so the longest-waiting orders are assigned
// before newer ones.
func (h GetPendingAssignmentOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetPendingAssignmentOrdersQuery,
) ([]GetPendingAssignmentOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetPendingAssignmentOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			zone,
			pricing_total,
			placed_at
		FROM orders
		WHERE status = ? AND delivery_agent_id IS NULL
		ORDER BY placed_at
	`, order.Confirmed.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetPendingAssignmentOrdersQueryResponse
		var id uuid.UUID
		var placedAt time.Time

		err = rows.Scan(
			&id,
			&resp.Zone,
			&resp.Total,
			&placedAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID
		resp.PlacedAt = placedAt
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

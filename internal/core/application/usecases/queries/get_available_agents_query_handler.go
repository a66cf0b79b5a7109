package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
)

// GetAvailableAgentsQueryHandler retrieves agents with free capacity from
// the database. Uses direct SQL for read performance in the CQRS pattern.
//
// Example:
//
//	handler := NewGetAvailableAgentsQueryHandler(db)
//	query := NewGetAvailableAgentsQuery("")
//
//	agents, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get available agents: %v", err)
//	    return err
//	}
type GetAvailableAgentsQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailableAgentsQueryHandler creates a handler for agent availability
// queries. Requires a GORM database connection for query execution.
func NewGetAvailableAgentsQueryHandler(db *gorm.DB) GetAvailableAgentsQueryHandler {
	return GetAvailableAgentsQueryHandler{db: db}
}

// Handle executes the query to retrieve active agents below their capacity.
// Results are sorted the way the assignment engine ranks candidates: best
// rated first, least loaded among equals.
func (h GetAvailableAgentsQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableAgentsQuery,
) ([]GetAvailableAgentsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	agents := make([]GetAvailableAgentsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			a.id,
			a.name,
			a.performance_customer_rating,
			a.max_orders,
			COUNT(aa.order_id) AS current_load
		FROM agents a
		LEFT JOIN agent_assignments aa ON aa.agent_id = a.id
		WHERE a.employment_status = ?
		  AND (? = '' OR EXISTS (
			SELECT 1 FROM agent_zones az WHERE az.agent_id = a.id AND az.zone = ?
		  ))
		GROUP BY a.id, a.name, a.performance_customer_rating, a.max_orders
		HAVING COUNT(aa.order_id) < a.max_orders
		ORDER BY a.performance_customer_rating DESC, current_load
	`, agent.Active.String(), query.Zone(), query.Zone()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetAvailableAgentsQueryResponse
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&resp.Name,
			&resp.Rating,
			&resp.MaxOrders,
			&resp.CurrentLoad,
		)
		if err != nil {
			return nil, err
		}

		agentID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = agentID
		agents = append(agents, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return agents, nil
}

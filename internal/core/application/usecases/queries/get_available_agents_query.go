package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetAvailableAgentsQueryIsNotConstructed = errors.New(
	"GetAvailableAgentsQuery must be created via NewGetAvailableAgentsQuery constructor",
)

// GetAvailableAgentsQuery retrieves active agents that still have free
// capacity, optionally narrowed to one delivery zone.
//
// Example:
//
//	query := NewGetAvailableAgentsQuery("zone-south-7")
//	handler := NewGetAvailableAgentsQueryHandler(db)
//
//	agents, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get available agents: %w", err)
//	}
//
//	fmt.Printf("%d agents can take orders\n", len(agents))
type GetAvailableAgentsQuery struct {
	zone string

	guard guard.ConstructorGuard
}

// NewGetAvailableAgentsQuery creates a query for available agents.
// An empty zone returns available agents across all zones.
func NewGetAvailableAgentsQuery(zone string) GetAvailableAgentsQuery {
	return GetAvailableAgentsQuery{zone: zone, guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetAvailableAgentsQueryIsNotConstructed if validation fails.
func (q GetAvailableAgentsQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableAgentsQueryIsNotConstructed)
}

// Zone returns the zone filter, empty for all zones.
func (q GetAvailableAgentsQuery) Zone() string {
	return q.zone
}

// GetAvailableAgentsQueryResponse is one agent with free capacity.
type GetAvailableAgentsQueryResponse struct {
	ID          kernel.UUID
	Name        string
	Rating      float64
	CurrentLoad int
	MaxOrders   int
}

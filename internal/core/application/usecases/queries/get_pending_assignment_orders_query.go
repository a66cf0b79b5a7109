package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetPendingAssignmentOrdersQueryIsNotConstructed = errors.New(
	"GetPendingAssignmentOrdersQuery must be created via NewGetPendingAssignmentOrdersQuery constructor",
)

// GetPendingAssignmentOrdersQuery retrieves confirmed orders that have no
// delivery agent yet. This is the queue the assignment engine works through.
//
// Example:
//
//	query := NewGetPendingAssignmentOrdersQuery()
//	handler := NewGetPendingAssignmentOrdersQueryHandler(db)
//
//	waiting, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get assignment queue: %w", err)
//	}
//
//	fmt.Printf("%d orders awaiting an agent\n", len(waiting))
type GetPendingAssignmentOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetPendingAssignmentOrdersQuery creates a query for the assignment queue.
// This is a parameterless query that fetches all confirmed, unassigned orders.
func NewGetPendingAssignmentOrdersQuery() GetPendingAssignmentOrdersQuery {
	return GetPendingAssignmentOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetPendingAssignmentOrdersQueryIsNotConstructed if validation fails.
func (q GetPendingAssignmentOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingAssignmentOrdersQueryIsNotConstructed)
}

// GetPendingAssignmentOrdersQueryResponse is one order waiting for an agent.
type GetPendingAssignmentOrdersQueryResponse struct {
	ID       kernel.UUID
	Zone     string
	Total    int64
	PlacedAt time.Time
}

package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
)

// AgentRepository defines the persistence contract for delivery agent
// aggregates, including their held orders, zones, and performance record.
type AgentRepository interface {
	// Add persists a new agent aggregate to storage.
	Add(ctx context.Context, aggregate *agent.Agent) error

	// Update persists changes to an existing agent aggregate.
	// The write is guarded by the aggregate's version: a concurrent update
	// since the load fails with errs.ErrVersionIsInvalid and nothing is
	// written.
	Update(ctx context.Context, aggregate *agent.Agent) error

	// Get retrieves an agent aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*agent.Agent, error)

	// GetAllActive retrieves every agent currently eligible for assignment.
	GetAllActive(ctx context.Context) ([]*agent.Agent, error)
}

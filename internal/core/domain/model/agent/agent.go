package agent

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// Domain errors for agent operations.
var (
	// ErrNameIsRequired is returned when attempting to create an agent without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrZonesAreRequired is returned when attempting to create an agent with no served zones.
	ErrZonesAreRequired = errs.NewValueIsRequiredError("zones")
	// ErrAgentIsNotConstructed is returned when using an improperly initialized Agent.
	ErrAgentIsNotConstructed = errors.New("Agent must be created via NewAgent or RestoreAgent constructor")
	// ErrCapacityExceeded is returned when an order intake would push the agent
	// past its concurrent order limit.
	ErrCapacityExceeded = errors.New("agent capacity exceeded")
	// ErrAgentNotActive is returned when an order is offered to an agent who is
	// not currently working.
	ErrAgentNotActive = errors.New("agent is not active")
)

// Agent represents a delivery agent in the fleet.
// It is an aggregate root that manages agent identity, capacity, zone
// coverage, and the performance record.
//
// Key responsibilities:
//   - Enforcing the concurrent order capacity limit on every intake
//   - Keeping the active order set free of duplicates
//   - Tracking served zones for assignment matching
//   - Accumulating delivery outcomes into the performance record
//
// Business rules:
//   - Agent must have a valid UUID, non-empty name, at least one zone, and a
//     positive capacity
//   - Only Active agents accept new orders
//   - Taking an order the agent already holds is a no-op, so assignment
//     retries after a partial failure stay safe
//   - Releasing an order the agent does not hold is a no-op
type Agent struct {
	// id uniquely identifies the agent
	id kernel.UUID
	// name is the human-readable name of the agent
	name string
	// employment is the current employment status
	employment EmploymentStatus
	// maxOrders bounds the number of concurrently held orders
	maxOrders int
	// currentOrders are the orders the agent currently holds
	currentOrders []kernel.UUID
	// zones are the delivery zones the agent serves
	zones []string
	// performance is the accumulated delivery record
	performance Performance
	// version supports optimistic concurrency control in the repository
	version int
	// guard ensures the agent was properly constructed
	guard guard.ConstructorGuard
}

// NewAgent creates a new active Agent with an empty order set and a fresh
// performance record. This and RestoreAgent are the only ways to create a
// valid Agent instance.
//
// Parameters:
//   - id: Unique identifier for the agent (must be valid UUID)
//   - name: Human-readable name (must be non-empty)
//   - zones: Delivery zones the agent serves (at least one)
//   - maxOrders: Concurrent order capacity (must be positive)
//
// Returns:
//   - *Agent: A fully initialized active agent
//   - error: Validation error if any parameter is invalid (aggregated errors
//     for multiple issues)
func NewAgent(id kernel.UUID, name string, zones []string, maxOrders int) (*Agent, error) {
	agent := &Agent{
		employment:  Active,
		performance: NewPerformance(),
		version:     1,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		agent.setID(id),
		agent.setName(name),
		agent.setZones(zones),
		agent.setMaxOrders(maxOrders),
	); err != nil {
		return nil, err
	}

	return agent, nil
}

// RestoreAgent reconstructs an Agent aggregate from persistent storage,
// including its held orders, employment status, performance record, and
// optimistic-concurrency version.
func RestoreAgent(
	id kernel.UUID,
	name string,
	employment EmploymentStatus,
	zones []string,
	maxOrders int,
	currentOrders []kernel.UUID,
	performance Performance,
	version int,
) (*Agent, error) {
	agent := &Agent{
		performance: performance,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		agent.setID(id),
		agent.setName(name),
		agent.setZones(zones),
		agent.setMaxOrders(maxOrders),
		employment.Validate(),
	); err != nil {
		return nil, err
	}
	if version <= 0 {
		return nil, errs.NewVersionIsInvalidErrorWithCause("agent")
	}
	if len(currentOrders) > maxOrders {
		return nil, fmt.Errorf("%w: %d orders held with capacity %d",
			ErrCapacityExceeded, len(currentOrders), maxOrders)
	}

	agent.employment = employment
	agent.currentOrders = append([]kernel.UUID(nil), currentOrders...)
	agent.version = version

	return agent, nil
}

// IsEqual compares two agents for equality based on their unique identifiers.
func (a *Agent) IsEqual(other *Agent) bool {
	if other == nil {
		return false
	}
	return a.id.IsEqual(other.id)
}

// Validate checks if the Agent was properly constructed via a constructor.
// The zero value of Agent is invalid and will fail this validation.
func (a *Agent) Validate() error {
	if a == nil {
		return ErrAgentIsNotConstructed
	}
	return a.guard.Validate(ErrAgentIsNotConstructed)
}

// ID returns the unique identifier of the agent.
func (a *Agent) ID() kernel.UUID {
	return a.id
}

// Name returns the human-readable name of the agent.
func (a *Agent) Name() string {
	return a.name
}

// Employment returns the agent's current employment status.
func (a *Agent) Employment() EmploymentStatus {
	return a.employment
}

// MaxOrders returns the agent's concurrent order capacity.
func (a *Agent) MaxOrders() int {
	return a.maxOrders
}

// CurrentOrders returns a copy of the order ids the agent currently holds.
func (a *Agent) CurrentOrders() []kernel.UUID {
	out := make([]kernel.UUID, len(a.currentOrders))
	copy(out, a.currentOrders)
	return out
}

// Zones returns a copy of the delivery zones the agent serves.
func (a *Agent) Zones() []string {
	out := make([]string, len(a.zones))
	copy(out, a.zones)
	return out
}

// Performance returns the agent's accumulated delivery record.
func (a *Agent) Performance() Performance {
	return a.performance
}

// Version returns the optimistic-concurrency version the aggregate was loaded at.
func (a *Agent) Version() int {
	return a.version
}

// IsActive reports whether the agent is eligible for new assignments.
func (a *Agent) IsActive() bool {
	return a.employment == Active
}

// CurrentLoad returns the number of orders the agent currently holds.
func (a *Agent) CurrentLoad() int {
	return len(a.currentOrders)
}

// HasCapacity reports whether the agent can take one more order.
func (a *Agent) HasCapacity() bool {
	return len(a.currentOrders) < a.maxOrders
}

// ServesZone reports whether the agent covers the given delivery zone.
func (a *Agent) ServesZone(zone string) bool {
	for _, z := range a.zones {
		if z == zone {
			return true
		}
	}
	return false
}

// TakeOrder adds an order to the agent's active set.
//
// The capacity limit is enforced here, at the aggregate boundary, so no call
// path can push an agent past maxOrders. Taking an order the agent already
// holds is a no-op returning nil, which makes assignment retries idempotent.
//
// Returns:
//   - ErrAgentNotActive if the agent is not currently working
//   - ErrCapacityExceeded if the intake would exceed maxOrders
func (a *Agent) TakeOrder(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if !a.IsActive() {
		return fmt.Errorf("%w: agent is %s", ErrAgentNotActive, a.employment)
	}
	if a.holdsOrder(orderID) {
		return nil
	}
	if !a.HasCapacity() {
		return fmt.Errorf("%w: %d of %d orders held", ErrCapacityExceeded, len(a.currentOrders), a.maxOrders)
	}

	a.currentOrders = append(a.currentOrders, orderID)
	return nil
}

// ReleaseOrder removes an order from the agent's active set, freeing one
// capacity slot. Releasing an order the agent does not hold is a no-op, so
// cancellation and completion paths can both release without coordination.
func (a *Agent) ReleaseOrder(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	for i, held := range a.currentOrders {
		if held.IsEqual(orderID) {
			a.currentOrders = append(a.currentOrders[:i], a.currentOrders[i+1:]...)
			return nil
		}
	}
	return nil
}

// RecordDeliveryOutcome adds one delivery outcome to the performance record.
// Counters only grow; the success rate is derived on read.
func (a *Agent) RecordDeliveryOutcome(success bool) {
	a.performance.record(success)
}

// SetCustomerRating updates the agent's average customer rating.
// The rating must be on the 0..5 scale.
func (a *Agent) SetCustomerRating(rating float64) error {
	if rating < minCustomerRating || rating > maxCustomerRating {
		return errs.NewValueIsOutOfRangeError("customer rating", rating, minCustomerRating, maxCustomerRating)
	}
	a.performance.customerRating = rating
	return nil
}

// SetEmployment changes the agent's employment status. Held orders are kept;
// the caller reassigns them when deactivating an agent mid-delivery.
func (a *Agent) SetEmployment(status EmploymentStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	a.employment = status
	return nil
}

// holdsOrder reports whether the order is already in the active set.
func (a *Agent) holdsOrder(orderID kernel.UUID) bool {
	for _, held := range a.currentOrders {
		if held.IsEqual(orderID) {
			return true
		}
	}
	return false
}

// setID sets the agent's unique identifier with validation.
func (a *Agent) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	a.id = id
	return nil
}

// setName sets the agent's name with validation.
func (a *Agent) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}

	a.name = name
	return nil
}

// setZones sets the agent's served zones with validation.
func (a *Agent) setZones(zones []string) error {
	if len(zones) == 0 {
		return ErrZonesAreRequired
	}
	for _, z := range zones {
		if z == "" {
			return errs.NewValueIsRequiredError("zone")
		}
	}

	a.zones = append([]string(nil), zones...)
	return nil
}

// setMaxOrders sets the agent's capacity with validation.
func (a *Agent) setMaxOrders(maxOrders int) error {
	if maxOrders <= 0 {
		return errs.NewValueIsRequiredError("max orders")
	}

	a.maxOrders = maxOrders
	return nil
}

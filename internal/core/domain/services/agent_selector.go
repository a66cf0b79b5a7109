package services

import (
	"errors"
	"sort"

	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/order"
)

// ErrAgentNotFound is returned when no suitable agent is available for an
// order. This occurs when no agents are provided, or none of the provided
// agents are active, serve the order's zone, and have free capacity.
var ErrAgentNotFound = errors.New("no agent available")

// AgentSelector is a domain service responsible for finding and assigning the
// best delivery agent for an order.
//
// Key responsibilities:
//   - Filtering agents by employment status, zone coverage, and capacity
//   - Ranking eligible agents by customer rating and then by load
//   - Executing the assignment on both sides of the association atomically
//
// Business rules:
//   - Only active agents are eligible
//   - The agent must serve the order's delivery zone
//   - The agent must have free capacity
//   - Higher customer rating wins; ties go to the lower current load
type AgentSelector struct{}

// NewAgentSelector creates a new AgentSelector instance.
func NewAgentSelector() AgentSelector {
	return AgentSelector{}
}

// Dispatch finds the best agent for the order and executes the assignment on
// both aggregates: the agent takes the order into its active set and the
// order records the assignment.
//
// Parameters:
//   - o: The order to assign (must be valid and past payment confirmation)
//   - agents: Candidate agents to consider
//   - automated: Whether this assignment was made by the scheduler
//
// Returns:
//   - *agent.Agent: The agent assigned to the order
//   - error: ErrAgentNotFound if no eligible agent exists, or the
//     validation/assignment error from either aggregate
func (s AgentSelector) Dispatch(o *order.Order, agents []*agent.Agent, automated bool) (*agent.Agent, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	ranked, err := s.RankAgents(agents, o.Zone())
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, ErrAgentNotFound
	}

	best := ranked[0]
	if err = best.TakeOrder(o.ID()); err != nil {
		return nil, err
	}

	actor := "assignment-engine"
	if !automated {
		actor = "dispatcher"
	}
	if err = o.AssignAgent(best.ID(), nil, actor, automated); err != nil {
		// Roll the intake back so the agent does not keep a slot for an
		// order that was never assigned to it.
		_ = best.ReleaseOrder(o.ID())
		return nil, err
	}

	return best, nil
}

// RankAgents filters the candidates down to active agents with free capacity
// serving the given zone, and orders them best-first.
//
// Ranking criteria:
//   - Higher customer rating first
//   - On equal rating, lower current load first
//   - On equal load, higher success rate first
//
// Returns the ranked eligible agents; an empty slice means no agent can take
// an order in this zone right now.
func (s AgentSelector) RankAgents(agents []*agent.Agent, zone string) ([]*agent.Agent, error) {
	eligible := make([]*agent.Agent, 0, len(agents))
	for _, a := range agents {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if !a.IsActive() || !a.HasCapacity() || !a.ServesZone(zone) {
			continue
		}
		eligible = append(eligible, a)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		ri, rj := eligible[i].Performance().CustomerRating(), eligible[j].Performance().CustomerRating()
		if ri != rj {
			return ri > rj
		}
		li, lj := eligible[i].CurrentLoad(), eligible[j].CurrentLoad()
		if li != lj {
			return li < lj
		}
		return eligible[i].Performance().SuccessRate() > eligible[j].Performance().SuccessRate()
	})

	return eligible, nil
}

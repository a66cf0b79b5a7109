package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

func confirmedOrder(t *testing.T, zone string) *order.Order {
	t.Helper()

	price, err := kernel.NewMoney(5000)
	require.NoError(t, err)
	item, err := order.NewItem("SKU-1", 1, price)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), zone, []order.Item{item},
		"card", "gw_order_1", kernel.ZeroMoney(), kernel.ZeroMoney(), kernel.ZeroMoney(), "customer")
	require.NoError(t, err)

	applied, err := o.ApplyPaymentCapture("gw_pay_1", price, time.Now())
	require.NoError(t, err)
	require.True(t, applied)

	return o
}

func agentIn(t *testing.T, zone string, maxOrders int, rating float64) *agent.Agent {
	t.Helper()
	a, err := agent.NewAgent(kernel.NewUUID(), "Agent", []string{zone}, maxOrders)
	require.NoError(t, err)
	require.NoError(t, a.SetCustomerRating(rating))
	return a
}

func TestAgentSelectorRankAgents(t *testing.T) {
	selector := NewAgentSelector()

	t.Run("should rank by rating then by load", func(t *testing.T) {
		top := agentIn(t, "zone-1", 3, 4.9)
		busy := agentIn(t, "zone-1", 3, 4.5)
		require.NoError(t, busy.TakeOrder(kernel.NewUUID()))
		idle := agentIn(t, "zone-1", 3, 4.5)

		ranked, err := selector.RankAgents([]*agent.Agent{busy, idle, top}, "zone-1")

		require.NoError(t, err)
		require.Len(t, ranked, 3)
		assert.True(t, ranked[0].IsEqual(top))
		assert.True(t, ranked[1].IsEqual(idle))
		assert.True(t, ranked[2].IsEqual(busy))
	})

	t.Run("should drop agents outside the zone", func(t *testing.T) {
		inZone := agentIn(t, "zone-1", 3, 4.0)
		outOfZone := agentIn(t, "zone-2", 3, 5.0)

		ranked, err := selector.RankAgents([]*agent.Agent{inZone, outOfZone}, "zone-1")

		require.NoError(t, err)
		require.Len(t, ranked, 1)
		assert.True(t, ranked[0].IsEqual(inZone))
	})

	t.Run("should drop inactive agents and agents at capacity", func(t *testing.T) {
		suspended := agentIn(t, "zone-1", 3, 5.0)
		require.NoError(t, suspended.SetEmployment(agent.Suspended))

		full := agentIn(t, "zone-1", 1, 5.0)
		require.NoError(t, full.TakeOrder(kernel.NewUUID()))

		ranked, err := selector.RankAgents([]*agent.Agent{suspended, full}, "zone-1")

		require.NoError(t, err)
		assert.Empty(t, ranked)
	})
}

func TestAgentSelectorDispatch(t *testing.T) {
	selector := NewAgentSelector()

	t.Run("should assign the best agent on both sides", func(t *testing.T) {
		o := confirmedOrder(t, "zone-1")
		best := agentIn(t, "zone-1", 3, 4.9)
		other := agentIn(t, "zone-1", 3, 4.1)

		assigned, err := selector.Dispatch(o, []*agent.Agent{other, best}, true)

		require.NoError(t, err)
		assert.True(t, assigned.IsEqual(best))
		assert.Equal(t, 1, best.CurrentLoad())
		require.NotNil(t, o.Delivery().AgentID())
		assert.True(t, o.Delivery().AgentID().IsEqual(best.ID()))
		assert.Equal(t, order.Processing, o.Status())
	})

	t.Run("should report no agent when everyone is at capacity", func(t *testing.T) {
		o := confirmedOrder(t, "zone-1")
		full := agentIn(t, "zone-1", 1, 4.9)
		require.NoError(t, full.TakeOrder(kernel.NewUUID()))

		_, err := selector.Dispatch(o, []*agent.Agent{full}, true)

		assert.ErrorIs(t, err, ErrAgentNotFound)
		assert.Nil(t, o.Delivery().AgentID())
	})

	t.Run("should release the capacity slot when the order rejects the assignment", func(t *testing.T) {
		o := confirmedOrder(t, "zone-1")
		a := agentIn(t, "zone-1", 3, 4.9)
		_, err := o.Cancel("changed my mind", "customer", kernel.ZeroMoney())
		require.NoError(t, err)

		_, err = selector.Dispatch(o, []*agent.Agent{a}, true)

		assert.ErrorIs(t, err, order.ErrInvalidState)
		assert.Equal(t, 0, a.CurrentLoad())
	})

	t.Run("should fall back across zones only when the agent lists both", func(t *testing.T) {
		o := confirmedOrder(t, "zone-1")
		multiZone, err := agent.NewAgent(kernel.NewUUID(), "Agent", []string{"zone-2", "zone-1"}, 2)
		require.NoError(t, err)

		assigned, err := selector.Dispatch(o, []*agent.Agent{multiZone}, false)

		require.NoError(t, err)
		assert.True(t, assigned.IsEqual(multiZone))
	})
}

package commands_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/ports"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*order.Order, error) {
	args := m.Called(ctx, gatewayOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllAwaitingAssignment(ctx context.Context, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllPendingPaymentOlderThan(
	ctx context.Context,
	cutoff time.Time,
) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockAgentRepository struct{ mock.Mock }

func (m *MockAgentRepository) Add(ctx context.Context, a *agent.Agent) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAgentRepository) Update(ctx context.Context, a *agent.Agent) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAgentRepository) Get(ctx context.Context, id kernel.UUID) (*agent.Agent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agent.Agent), args.Error(1)
}

func (m *MockAgentRepository) GetAllActive(ctx context.Context) ([]*agent.Agent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*agent.Agent), args.Error(1)
}

type MockWebhookEventRepository struct{ mock.Mock }

func (m *MockWebhookEventRepository) Add(ctx context.Context, e *payment.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockWebhookEventRepository) GetByEventID(ctx context.Context, eventID string) (*payment.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Event), args.Error(1)
}

// MockUoW satisfies every unit of work shape the handlers use.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) AgentRepository() ports.AgentRepository {
	args := m.Called()
	return args.Get(0).(ports.AgentRepository)
}

func (m *MockUoW) WebhookEventRepository() ports.WebhookEventRepository {
	args := m.Called()
	return args.Get(0).(ports.WebhookEventRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockAssignmentUoWFactory struct{ mock.Mock }

func (m *MockAssignmentUoWFactory) Create() commands.AssignmentUoW {
	args := m.Called()
	return args.Get(0).(commands.AssignmentUoW)
}

type MockWebhookUoWFactory struct{ mock.Mock }

func (m *MockWebhookUoWFactory) Create() commands.WebhookUoW {
	args := m.Called()
	return args.Get(0).(commands.WebhookUoW)
}

type MockInventoryService struct{ mock.Mock }

func (m *MockInventoryService) Reserve(ctx context.Context, orderID kernel.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockInventoryService) Release(ctx context.Context, orderID kernel.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

// NopAudit is a throwaway audit publisher for handler tests.
type NopAudit struct{}

func (NopAudit) Publish(context.Context, ports.AuditEvent) error { return nil }

// test fixtures shared across handler tests

func pendingOrderFixture(orderID kernel.UUID, zone, gatewayOrderID string) *order.Order {
	price, _ := kernel.NewMoney(16000)
	item, _ := order.NewItem("SKU-1", 1, price)
	o, _ := order.NewOrder(orderID, zone, []order.Item{item},
		"card", gatewayOrderID, kernel.ZeroMoney(), kernel.ZeroMoney(), kernel.ZeroMoney(), "customer")
	return o
}

func confirmedOrderFixture(orderID kernel.UUID, zone string) *order.Order {
	o := pendingOrderFixture(orderID, zone, "gw_order_1")
	amount, _ := kernel.NewMoney(16000)
	_, _ = o.ApplyPaymentCapture("gw_pay_1", amount, time.Now())
	return o
}

func activeAgentFixture(agentID kernel.UUID, zone string, maxOrders int) *agent.Agent {
	a, _ := agent.NewAgent(agentID, "Test Agent", []string{zone}, maxOrders)
	return a
}

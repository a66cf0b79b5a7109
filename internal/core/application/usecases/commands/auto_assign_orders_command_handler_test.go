package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

func TestAutoAssignOrdersCommandHandler_Handle_AssignsWaitingOrders(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewAutoAssignQueuedOrdersCommand(10)
	require.NoError(t, err)

	firstOrder := confirmedOrderFixture(kernel.NewUUID(), "zone-1")
	secondOrder := confirmedOrderFixture(kernel.NewUUID(), "zone-1")
	worker := activeAgentFixture(kernel.NewUUID(), "zone-1", 2)

	orderRepo := new(MockOrderRepository)
	agentRepo := new(MockAgentRepository)

	listUow := new(MockUoW)
	listUow.On("Begin", ctx).Return(nil).Once()
	listUow.On("OrderRepository").Return(orderRepo).Once()
	listUow.On("AgentRepository").Return(agentRepo).Once()
	listUow.On("Commit", ctx).Return(nil).Once()

	orderRepo.On("GetAllAwaitingAssignment", ctx, 10).
		Return([]*order.Order{firstOrder, secondOrder}, nil).Once()
	agentRepo.On("GetAllActive", ctx).Return([]*agent.Agent{worker}, nil).Once()

	assignUow := new(MockUoW)
	assignUow.On("Begin", ctx).Return(nil).Twice()
	assignUow.On("OrderRepository").Return(orderRepo).Twice()
	assignUow.On("AgentRepository").Return(agentRepo).Twice()
	assignUow.On("Commit", ctx).Return(nil).Twice()
	assignUow.On("Rollback", ctx).Return(nil).Twice()

	orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Twice()
	agentRepo.On("Update", ctx, mock.AnythingOfType("*agent.Agent")).Return(nil).Twice()

	factory := new(MockAssignmentUoWFactory)
	factory.On("Create").Return(listUow).Once()
	factory.On("Create").Return(assignUow).Twice()

	handler := commands.NewAutoAssignOrdersCommandHandler(factory, NopAudit{})
	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, worker.ID().String(), result.Outcomes[firstOrder.ID().String()])
	assert.Equal(t, worker.ID().String(), result.Outcomes[secondOrder.ID().String()])
	assert.Equal(t, 2, worker.CurrentLoad())
	assert.Equal(t, order.Processing, firstOrder.Status())
	assert.Equal(t, order.Processing, secondOrder.Status())
}

func TestAutoAssignOrdersCommandHandler_Handle_CapacityExhaustedMidBatch(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewAutoAssignQueuedOrdersCommand(10)
	require.NoError(t, err)

	firstOrder := confirmedOrderFixture(kernel.NewUUID(), "zone-1")
	secondOrder := confirmedOrderFixture(kernel.NewUUID(), "zone-1")
	worker := activeAgentFixture(kernel.NewUUID(), "zone-1", 1)

	orderRepo := new(MockOrderRepository)
	agentRepo := new(MockAgentRepository)

	listUow := new(MockUoW)
	listUow.On("Begin", ctx).Return(nil).Once()
	listUow.On("OrderRepository").Return(orderRepo).Once()
	listUow.On("AgentRepository").Return(agentRepo).Once()
	listUow.On("Commit", ctx).Return(nil).Once()

	orderRepo.On("GetAllAwaitingAssignment", ctx, 10).
		Return([]*order.Order{firstOrder, secondOrder}, nil).Once()
	agentRepo.On("GetAllActive", ctx).Return([]*agent.Agent{worker}, nil).Once()

	assignUow := new(MockUoW)
	assignUow.On("Begin", ctx).Return(nil).Once()
	assignUow.On("OrderRepository").Return(orderRepo).Once()
	assignUow.On("AgentRepository").Return(agentRepo).Once()
	assignUow.On("Commit", ctx).Return(nil).Once()
	assignUow.On("Rollback", ctx).Return(nil).Once()

	orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	agentRepo.On("Update", ctx, mock.AnythingOfType("*agent.Agent")).Return(nil).Once()

	factory := new(MockAssignmentUoWFactory)
	factory.On("Create").Return(listUow).Once()
	factory.On("Create").Return(assignUow).Once()

	handler := commands.NewAutoAssignOrdersCommandHandler(factory, NopAudit{})
	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, worker.ID().String(), result.Outcomes[firstOrder.ID().String()])
	assert.Equal(t, commands.OutcomeNoAgentAvailable, result.Outcomes[secondOrder.ID().String()])
	assert.False(t, worker.HasCapacity())
	assert.Equal(t, order.Confirmed, secondOrder.Status())
}

func TestAutoAssignOrdersCommandHandler_Handle_NoAgentInZone(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewAutoAssignQueuedOrdersCommand(5)
	require.NoError(t, err)

	waiting := confirmedOrderFixture(kernel.NewUUID(), "zone-9")
	worker := activeAgentFixture(kernel.NewUUID(), "zone-1", 3)

	orderRepo := new(MockOrderRepository)
	agentRepo := new(MockAgentRepository)

	listUow := new(MockUoW)
	listUow.On("Begin", ctx).Return(nil).Once()
	listUow.On("OrderRepository").Return(orderRepo).Once()
	listUow.On("AgentRepository").Return(agentRepo).Once()
	listUow.On("Commit", ctx).Return(nil).Once()

	orderRepo.On("GetAllAwaitingAssignment", ctx, 5).Return([]*order.Order{waiting}, nil).Once()
	agentRepo.On("GetAllActive", ctx).Return([]*agent.Agent{worker}, nil).Once()

	factory := new(MockAssignmentUoWFactory)
	factory.On("Create").Return(listUow).Once()

	handler := commands.NewAutoAssignOrdersCommandHandler(factory, NopAudit{})
	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, commands.OutcomeNoAgentAvailable, result.Outcomes[waiting.ID().String()])
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAutoAssignOrdersCommandHandler_Handle_ExplicitListHonorsRequestOrder(t *testing.T) {
	ctx := t.Context()

	firstOrder := confirmedOrderFixture(kernel.NewUUID(), "zone-1")
	secondOrder := confirmedOrderFixture(kernel.NewUUID(), "zone-1")
	thirdOrder := confirmedOrderFixture(kernel.NewUUID(), "zone-1")
	worker := activeAgentFixture(kernel.NewUUID(), "zone-1", 1)

	cmd, err := commands.NewAutoAssignOrdersCommand(
		[]kernel.UUID{firstOrder.ID(), secondOrder.ID(), thirdOrder.ID()})
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	agentRepo := new(MockAgentRepository)

	listUow := new(MockUoW)
	listUow.On("Begin", ctx).Return(nil).Once()
	listUow.On("OrderRepository").Return(orderRepo).Times(3)
	listUow.On("AgentRepository").Return(agentRepo).Once()
	listUow.On("Commit", ctx).Return(nil).Once()

	orderRepo.On("Get", ctx, firstOrder.ID()).Return(firstOrder, nil).Once()
	orderRepo.On("Get", ctx, secondOrder.ID()).Return(secondOrder, nil).Once()
	orderRepo.On("Get", ctx, thirdOrder.ID()).Return(thirdOrder, nil).Once()
	agentRepo.On("GetAllActive", ctx).Return([]*agent.Agent{worker}, nil).Once()

	assignUow := new(MockUoW)
	assignUow.On("Begin", ctx).Return(nil).Once()
	assignUow.On("OrderRepository").Return(orderRepo).Once()
	assignUow.On("AgentRepository").Return(agentRepo).Once()
	assignUow.On("Commit", ctx).Return(nil).Once()
	assignUow.On("Rollback", ctx).Return(nil).Once()

	orderRepo.On("Update", ctx, firstOrder).Return(nil).Once()
	agentRepo.On("Update", ctx, worker).Return(nil).Once()

	factory := new(MockAssignmentUoWFactory)
	factory.On("Create").Return(listUow).Once()
	factory.On("Create").Return(assignUow).Once()

	handler := commands.NewAutoAssignOrdersCommandHandler(factory, NopAudit{})
	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, worker.ID().String(), result.Outcomes[firstOrder.ID().String()])
	assert.Equal(t, commands.OutcomeNoAgentAvailable, result.Outcomes[secondOrder.ID().String()])
	assert.Equal(t, commands.OutcomeNoAgentAvailable, result.Outcomes[thirdOrder.ID().String()])
	assert.Equal(t, order.Processing, firstOrder.Status())
	assert.Equal(t, order.Confirmed, secondOrder.Status())
	assert.Equal(t, order.Confirmed, thirdOrder.Status())
	assert.False(t, worker.HasCapacity())
}

func TestAutoAssignOrdersCommandHandler_Handle_UnknownOrderDoesNotFailBatch(t *testing.T) {
	ctx := t.Context()

	missingID := kernel.NewUUID()
	waiting := confirmedOrderFixture(kernel.NewUUID(), "zone-1")
	worker := activeAgentFixture(kernel.NewUUID(), "zone-1", 2)

	cmd, err := commands.NewAutoAssignOrdersCommand([]kernel.UUID{missingID, waiting.ID()})
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	agentRepo := new(MockAgentRepository)

	listUow := new(MockUoW)
	listUow.On("Begin", ctx).Return(nil).Once()
	listUow.On("OrderRepository").Return(orderRepo).Twice()
	listUow.On("AgentRepository").Return(agentRepo).Once()
	listUow.On("Commit", ctx).Return(nil).Once()

	orderRepo.On("Get", ctx, missingID).
		Return(nil, errs.NewObjectNotFoundError("orderId", missingID)).Once()
	orderRepo.On("Get", ctx, waiting.ID()).Return(waiting, nil).Once()
	agentRepo.On("GetAllActive", ctx).Return([]*agent.Agent{worker}, nil).Once()

	assignUow := new(MockUoW)
	assignUow.On("Begin", ctx).Return(nil).Once()
	assignUow.On("OrderRepository").Return(orderRepo).Once()
	assignUow.On("AgentRepository").Return(agentRepo).Once()
	assignUow.On("Commit", ctx).Return(nil).Once()
	assignUow.On("Rollback", ctx).Return(nil).Once()

	orderRepo.On("Update", ctx, waiting).Return(nil).Once()
	agentRepo.On("Update", ctx, worker).Return(nil).Once()

	factory := new(MockAssignmentUoWFactory)
	factory.On("Create").Return(listUow).Once()
	factory.On("Create").Return(assignUow).Once()

	handler := commands.NewAutoAssignOrdersCommandHandler(factory, NopAudit{})
	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, commands.OutcomeOrderNotFound, result.Outcomes[missingID.String()])
	assert.Equal(t, worker.ID().String(), result.Outcomes[waiting.ID().String()])
	assert.Equal(t, order.Processing, waiting.Status())
}

func TestAutoAssignOrdersCommand_Validation(t *testing.T) {
	_, err := commands.NewAutoAssignOrdersCommand(nil)
	require.Error(t, err)

	_, err = commands.NewAutoAssignQueuedOrdersCommand(0)
	require.Error(t, err)

	cmd := commands.AutoAssignOrdersCommand{}
	assert.ErrorIs(t, cmd.Validate(), commands.ErrAutoAssignOrdersCommandIsNotConstructed)
}

package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

func TestTransitionOrderCommandHandler_Handle_MovesConfirmedOrderToProcessing(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	target := confirmedOrderFixture(orderID, "downtown")

	cmd, err := commands.NewTransitionOrderCommand(orderID, order.Processing, "operator", "manual dispatch")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)

	factory.On("Create").Return(uow).Once()
	beginCall := uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	getCall := orderRepo.On("Get", ctx, orderID).Return(target, nil).Once()
	updateCall := orderRepo.On("Update", ctx, target).Return(nil).Once()
	commitCall := uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	mock.InOrder(beginCall, getCall, updateCall, commitCall)

	handler := commands.NewTransitionOrderCommandHandler(factory, NopAudit{})
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Processing, target.Status())
	lastEntry := target.Timeline()[len(target.Timeline())-1]
	assert.Equal(t, order.Processing, lastEntry.Status())
	assert.Equal(t, "operator", lastEntry.Actor())
	uow.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_IllegalMoveRollsBack(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	target := pendingOrderFixture(orderID, "downtown", "gw_order_1")

	cmd, err := commands.NewTransitionOrderCommand(orderID, order.Shipped, "operator", "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	orderRepo.On("Get", ctx, orderID).Return(target, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewTransitionOrderCommandHandler(factory, NopAudit{})
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrInvalidTransition)
	assert.Equal(t, order.Pending, target.Status())
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestTransitionOrderCommandHandler_Handle_OrderNotFound(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()

	cmd, err := commands.NewTransitionOrderCommand(orderID, order.Confirmed, "operator", "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	orderRepo.On("Get", ctx, orderID).Return(nil, errs.NewObjectNotFoundError("orderId", orderID)).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewTransitionOrderCommandHandler(factory, NopAudit{})
	err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, commands.ErrOrderNotFound)
}

func TestNewTransitionOrderCommand_RejectsDeliveredTarget(t *testing.T) {
	orderID := kernel.NewUUID()
	agentID := kernel.NewUUID()
	target, worker := outForDeliveryPair(t, orderID, agentID)

	_, err := commands.NewTransitionOrderCommand(orderID, order.Delivered, "operator", "customer confirmed by phone")

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	// The shortcut never reaches the order, so the agent keeps its slot
	// until a delivery attempt settles the assignment.
	assert.Equal(t, order.OutForDelivery, target.Status())
	assert.Equal(t, 1, worker.CurrentLoad())
	assert.Equal(t, 0, worker.Performance().TotalDeliveries())
}

func TestTransitionOrderCommand_Validate_RejectsZeroValue(t *testing.T) {
	var cmd commands.TransitionOrderCommand

	assert.ErrorIs(t, cmd.Validate(), commands.ErrTransitionOrderCommandIsNotConstructed)
}

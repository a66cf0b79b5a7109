package commands_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

func placementCommand(t *testing.T, orderID kernel.UUID) commands.CreateOrderCommand {
	t.Helper()

	cmd, err := commands.NewCreateOrderCommand(
		orderID, "zone-1",
		[]commands.OrderItemInput{
			{ProductID: "sku-100", Quantity: 2, UnitPrice: 2500},
			{ProductID: "sku-200", Quantity: 1, UnitPrice: 10000},
		},
		"card", "gw_order_81",
		500, 900, 400, "customer",
	)
	require.NoError(t, err)

	return cmd
}

func TestCreateOrderCommandHandler_Handle_ReservesStockAndPersists(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	cmd := placementCommand(t, orderID)

	orderRepo := new(MockOrderRepository)
	inventory := new(MockInventoryService)
	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)

	reserveCall := inventory.On("Reserve", ctx, orderID).Return(nil).Once()
	factory.On("Create").Return(uow).Once()
	beginCall := uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	addCall := orderRepo.On("Add", ctx, mock.MatchedBy(func(o *order.Order) bool {
		return o.ID().IsEqual(orderID) && o.Status() == order.Pending
	})).Return(nil).Once()
	commitCall := uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	mock.InOrder(reserveCall, beginCall, addCall, commitCall)

	handler := commands.NewCreateOrderCommandHandler(factory, inventory, NopAudit{})
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	inventory.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_ReleasesReservationWhenPersistFails(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	cmd := placementCommand(t, orderID)
	persistErr := errors.New("connection reset")

	orderRepo := new(MockOrderRepository)
	inventory := new(MockInventoryService)
	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)

	reserveCall := inventory.On("Reserve", ctx, orderID).Return(nil).Once()
	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	addCall := orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(persistErr).Once()
	releaseCall := inventory.On("Release", ctx, orderID).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	mock.InOrder(reserveCall, addCall, releaseCall)

	handler := commands.NewCreateOrderCommandHandler(factory, inventory, NopAudit{})
	err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, persistErr)
	inventory.AssertExpectations(t)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_ReservationFailureAbortsPlacement(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	cmd := placementCommand(t, orderID)
	reserveErr := errors.New("insufficient stock")

	inventory := new(MockInventoryService)
	factory := new(MockOrderUoWFactory)

	inventory.On("Reserve", ctx, orderID).Return(reserveErr).Once()

	handler := commands.NewCreateOrderCommandHandler(factory, inventory, NopAudit{})
	err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, reserveErr)
	factory.AssertNotCalled(t, "Create")
	inventory.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestCreateOrderCommand_Validation(t *testing.T) {
	tests := []struct {
		name  string
		zone  string
		items []commands.OrderItemInput
	}{
		{"should reject empty zone", "", []commands.OrderItemInput{{ProductID: "sku-1", Quantity: 1, UnitPrice: 100}}},
		{"should reject empty items", "zone-1", nil},
		{"should reject zero quantity", "zone-1", []commands.OrderItemInput{{ProductID: "sku-1", Quantity: 0, UnitPrice: 100}}},
		{"should reject negative price", "zone-1", []commands.OrderItemInput{{ProductID: "sku-1", Quantity: 1, UnitPrice: -1}}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := commands.NewCreateOrderCommand(
				kernel.NewUUID(), test.zone, test.items, "card", "gw_order_1", 0, 0, 0, "customer")
			require.Error(t, err)
		})
	}

	t.Run("should reject zero value command", func(t *testing.T) {
		cmd := commands.CreateOrderCommand{}
		assert.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
	})
}

package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

func TestExpirePaymentReservationsCommandHandler_Handle_ReleasesStaleReservations(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewExpirePaymentReservationsCommand(48 * time.Hour)
	require.NoError(t, err)

	stale := pendingOrderFixture(kernel.NewUUID(), "zone-1", "gw_order_1")

	orderRepo := new(MockOrderRepository)
	inventory := new(MockInventoryService)

	listUow := new(MockUoW)
	listUow.On("Begin", ctx).Return(nil).Once()
	listUow.On("OrderRepository").Return(orderRepo).Once()
	listUow.On("Commit", ctx).Return(nil).Once()

	orderRepo.On("GetAllPendingPaymentOlderThan", ctx, mock.AnythingOfType("time.Time")).
		Return([]*order.Order{stale}, nil).Once()

	expireUow := new(MockUoW)
	expireUow.On("Begin", ctx).Return(nil).Once()
	expireUow.On("OrderRepository").Return(orderRepo).Once()
	expireUow.On("Commit", ctx).Return(nil).Once()
	expireUow.On("Rollback", ctx).Return(nil).Once()

	orderRepo.On("Get", ctx, stale.ID()).Return(stale, nil).Once()
	orderRepo.On("Update", ctx, stale).Return(nil).Once()
	inventory.On("Release", ctx, stale.ID()).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(listUow).Once()
	factory.On("Create").Return(expireUow).Once()

	handler := commands.NewExpirePaymentReservationsCommandHandler(factory, inventory, NopAudit{})
	released, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, released)
	// The order is not cancelled; a late capture can still confirm it.
	assert.Equal(t, order.Pending, stale.Status())
	assert.True(t, stale.ReservationReleased())
	inventory.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
}

func TestExpirePaymentReservationsCommandHandler_Handle_SweepingTwiceIsNoOp(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewExpirePaymentReservationsCommand(48 * time.Hour)
	require.NoError(t, err)

	stale := pendingOrderFixture(kernel.NewUUID(), "zone-1", "gw_order_1")
	require.True(t, stale.ReleaseReservation())

	orderRepo := new(MockOrderRepository)
	inventory := new(MockInventoryService)

	listUow := new(MockUoW)
	listUow.On("Begin", ctx).Return(nil).Once()
	listUow.On("OrderRepository").Return(orderRepo).Once()
	listUow.On("Commit", ctx).Return(nil).Once()

	orderRepo.On("GetAllPendingPaymentOlderThan", ctx, mock.AnythingOfType("time.Time")).
		Return([]*order.Order{stale}, nil).Once()

	expireUow := new(MockUoW)
	expireUow.On("Begin", ctx).Return(nil).Once()
	expireUow.On("OrderRepository").Return(orderRepo).Once()
	expireUow.On("Rollback", ctx).Return(nil).Once()

	orderRepo.On("Get", ctx, stale.ID()).Return(stale, nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(listUow).Once()
	factory.On("Create").Return(expireUow).Once()

	handler := commands.NewExpirePaymentReservationsCommandHandler(factory, inventory, NopAudit{})
	released, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 0, released)
	assert.Equal(t, order.Pending, stale.Status())
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	inventory.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestExpirePaymentReservationsCommandHandler_Handle_SkipsOrderPaidSinceSweepQuery(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewExpirePaymentReservationsCommand(48 * time.Hour)
	require.NoError(t, err)

	// Listed as stale, but a capture lands before the expiry transaction
	// reloads it.
	paid := confirmedOrderFixture(kernel.NewUUID(), "zone-1")

	orderRepo := new(MockOrderRepository)
	inventory := new(MockInventoryService)

	listUow := new(MockUoW)
	listUow.On("Begin", ctx).Return(nil).Once()
	listUow.On("OrderRepository").Return(orderRepo).Once()
	listUow.On("Commit", ctx).Return(nil).Once()

	orderRepo.On("GetAllPendingPaymentOlderThan", ctx, mock.AnythingOfType("time.Time")).
		Return([]*order.Order{paid}, nil).Once()

	expireUow := new(MockUoW)
	expireUow.On("Begin", ctx).Return(nil).Once()
	expireUow.On("OrderRepository").Return(orderRepo).Once()
	expireUow.On("Rollback", ctx).Return(nil).Once()

	orderRepo.On("Get", ctx, paid.ID()).Return(paid, nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(listUow).Once()
	factory.On("Create").Return(expireUow).Once()

	handler := commands.NewExpirePaymentReservationsCommandHandler(factory, inventory, NopAudit{})
	released, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 0, released)
	assert.Equal(t, order.Confirmed, paid.Status())
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	inventory.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestExpirePaymentReservationsCommand_Validation(t *testing.T) {
	_, err := commands.NewExpirePaymentReservationsCommand(0)
	require.Error(t, err)

	cmd := commands.ExpirePaymentReservationsCommand{}
	assert.ErrorIs(t, cmd.Validate(), commands.ErrExpirePaymentReservationsCommandIsNotConstructed)
}

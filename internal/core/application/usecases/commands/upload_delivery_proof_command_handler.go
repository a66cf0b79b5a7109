package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// UploadDeliveryProofCommandHandler attaches proof-of-delivery artifacts.
// The order aggregate rejects proof with order.ErrInvalidState unless the
// delivery was attempted or completed.
type UploadDeliveryProofCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewUploadDeliveryProofCommandHandler creates a handler for proof uploads.
func NewUploadDeliveryProofCommandHandler(uowFactory OrderUoWFactory) UploadDeliveryProofCommandHandler {
	return UploadDeliveryProofCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle loads the order, attaches the proof, and persists the result.
func (h UploadDeliveryProofCommandHandler) Handle(ctx context.Context, cmd UploadDeliveryProofCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	proof, err := order.NewProof(cmd.ProofType(), cmd.Data(), cmd.Location(), cmd.VerifiedBy())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	target, err := orderRepo.Get(ctx, cmd.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	if err = target.AttachProof(proof); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, target); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrUploadDeliveryProofCommandIsNotConstructed = errors.New(
	"UploadDeliveryProofCommand must be created via NewUploadDeliveryProofCommand constructor",
)

// UploadDeliveryProofCommand attaches a proof-of-delivery artifact to an
// order whose delivery was attempted or completed.
type UploadDeliveryProofCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	proofType  string
	data       string
	location   string
	verifiedBy string

	guard guard.ConstructorGuard
}

// NewUploadDeliveryProofCommand creates a command to attach delivery proof.
// proofType names the artifact kind (photo, signature, otp) and data carries
// its reference or content.
func NewUploadDeliveryProofCommand(
	orderID kernel.UUID,
	proofType, data, location, verifiedBy string,
) (UploadDeliveryProofCommand, error) {
	cmd := UploadDeliveryProofCommand{
		location:   location,
		verifiedBy: verifiedBy,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setProofType(proofType),
		cmd.setData(data),
	); err != nil {
		return UploadDeliveryProofCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UploadDeliveryProofCommand) Validate() error {
	return c.guard.Validate(ErrUploadDeliveryProofCommandIsNotConstructed)
}

// OrderID returns the order the proof belongs to.
func (c UploadDeliveryProofCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ProofType returns the artifact kind.
func (c UploadDeliveryProofCommand) ProofType() string {
	return c.proofType
}

// Data returns the artifact reference or content.
func (c UploadDeliveryProofCommand) Data() string {
	return c.data
}

// Location returns where the proof was captured, if reported.
func (c UploadDeliveryProofCommand) Location() string {
	return c.location
}

// VerifiedBy returns who verified the proof, if anyone.
func (c UploadDeliveryProofCommand) VerifiedBy() string {
	return c.verifiedBy
}

func (c *UploadDeliveryProofCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UploadDeliveryProofCommand) setProofType(proofType string) error {
	if proofType == "" {
		return errs.NewValueIsRequiredError("proof type")
	}

	c.proofType = proofType
	return nil
}

func (c *UploadDeliveryProofCommand) setData(data string) error {
	if data == "" {
		return errs.NewValueIsRequiredError("proof data")
	}

	c.data = data
	return nil
}

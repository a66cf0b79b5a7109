package commands

import (
	"errors"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrExpirePaymentReservationsCommandIsNotConstructed = errors.New(
	"ExpirePaymentReservationsCommand must be created via NewExpirePaymentReservationsCommand constructor",
)

// ExpirePaymentReservationsCommand triggers one sweep over pending orders
// whose payment window has elapsed. Each such order is cancelled and its
// inventory reservation released.
type ExpirePaymentReservationsCommand struct { //nolint:recvcheck //using for validation
	maxAge time.Duration

	guard guard.ConstructorGuard
}

// NewExpirePaymentReservationsCommand creates a command to expire orders
// whose payment has been pending longer than maxAge.
func NewExpirePaymentReservationsCommand(maxAge time.Duration) (ExpirePaymentReservationsCommand, error) {
	if maxAge <= 0 {
		return ExpirePaymentReservationsCommand{}, errs.NewValueIsRequiredError("max age")
	}

	return ExpirePaymentReservationsCommand{
		maxAge: maxAge,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ExpirePaymentReservationsCommand) Validate() error {
	return c.guard.Validate(ErrExpirePaymentReservationsCommandIsNotConstructed)
}

// MaxAge returns the payment window.
func (c ExpirePaymentReservationsCommand) MaxAge() time.Duration {
	return c.maxAge
}

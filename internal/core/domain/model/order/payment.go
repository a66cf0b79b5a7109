package order

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// PaymentStatus represents the gateway payment sub-state of an order.
//
// The status is monotonic along Pending → Completed|Failed: a capture or
// failure webhook can never move it back to Pending, and the refund states are
// reachable only through an explicit refund operation, never as a webhook side
// effect.
type PaymentStatus int

const (
	// PaymentUnknown represents an invalid or undefined payment status.
	PaymentUnknown PaymentStatus = iota

	// PaymentPending is the initial status: no capture has been confirmed yet.
	PaymentPending

	// PaymentCompleted indicates the gateway confirmed a successful capture.
	PaymentCompleted

	// PaymentFailed indicates the last capture attempt failed. The order stays
	// Pending so the customer can retry; failures increment the retry counter.
	PaymentFailed

	// PaymentRefunded indicates the full paid amount was returned.
	PaymentRefunded

	// PaymentPartiallyRefunded indicates part of the paid amount was returned.
	PaymentPartiallyRefunded
)

// getPaymentStatusStrings returns a map of PaymentStatus values to their string representations.
func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentUnknown:           "unknown",
		PaymentPending:           "pending",
		PaymentCompleted:         "completed",
		PaymentFailed:            "failed",
		PaymentRefunded:          "refunded",
		PaymentPartiallyRefunded: "partially_refunded",
	}
}

// PaymentStatusFromString parses the string representation of a payment status.
func PaymentStatusFromString(name string) (PaymentStatus, error) {
	for status, str := range getPaymentStatusStrings() {
		if str == name && status != PaymentUnknown {
			return status, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause(
		"payment status", fmt.Errorf("%q is not a valid payment status", name))
}

// Validate checks if the PaymentStatus value is one of the defined states.
func (s PaymentStatus) Validate() error {
	if s == PaymentUnknown {
		return errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%d is not a valid payment status", s))
	}
	if _, ok := getPaymentStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%d is not a valid payment status", s))
	}
	return nil
}

// String returns the human-readable name of the payment status.
func (s PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Payment is the payment record embedded in an Order aggregate.
// It tracks the gateway identifiers, captured amount, and retry history.
// Payment is mutated only through Order methods.
type Payment struct {
	method           string
	status           PaymentStatus
	gatewayOrderID   string
	gatewayPaymentID string
	paidAmount       kernel.Money
	paidAt           *time.Time
	retryCount       int
	failureReason    string
}

// NewPayment creates the initial pending payment record for an order.
// The gateway order identifier is assigned at checkout by the payment gateway
// and links incoming webhooks back to this order.
func NewPayment(method, gatewayOrderID string) (Payment, error) {
	if method == "" {
		return Payment{}, errs.NewValueIsRequiredError("payment method")
	}
	if gatewayOrderID == "" {
		return Payment{}, errs.NewValueIsRequiredError("gateway order id")
	}

	return Payment{
		method:         method,
		status:         PaymentPending,
		gatewayOrderID: gatewayOrderID,
	}, nil
}

// RestorePayment reconstructs a payment record from persistence.
func RestorePayment(
	method string,
	status PaymentStatus,
	gatewayOrderID string,
	gatewayPaymentID string,
	paidAmount kernel.Money,
	paidAt *time.Time,
	retryCount int,
	failureReason string,
) (Payment, error) {
	if err := status.Validate(); err != nil {
		return Payment{}, err
	}

	return Payment{
		method:           method,
		status:           status,
		gatewayOrderID:   gatewayOrderID,
		gatewayPaymentID: gatewayPaymentID,
		paidAmount:       paidAmount,
		paidAt:           paidAt,
		retryCount:       retryCount,
		failureReason:    failureReason,
	}, nil
}

// Method returns the payment method chosen at checkout.
func (p Payment) Method() string {
	return p.method
}

// Status returns the current payment status.
func (p Payment) Status() PaymentStatus {
	return p.status
}

// GatewayOrderID returns the gateway-assigned order identifier.
func (p Payment) GatewayOrderID() string {
	return p.gatewayOrderID
}

// GatewayPaymentID returns the gateway-assigned payment identifier,
// set when a capture is applied.
func (p Payment) GatewayPaymentID() string {
	return p.gatewayPaymentID
}

// PaidAmount returns the captured amount.
func (p Payment) PaidAmount() kernel.Money {
	return p.paidAmount
}

// PaidAt returns the capture timestamp, nil until a capture is applied.
func (p Payment) PaidAt() *time.Time {
	return p.paidAt
}

// RetryCount returns the number of failed capture attempts.
func (p Payment) RetryCount() int {
	return p.retryCount
}

// FailureReason returns the reason reported with the last failed capture.
func (p Payment) FailureReason() string {
	return p.failureReason
}

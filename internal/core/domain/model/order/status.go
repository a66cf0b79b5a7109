package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// ErrInvalidTransition is returned when a requested status change is not present
// in the transition table. The order is left unchanged.
var ErrInvalidTransition = errors.New("invalid status transition")

// Status represents the lifecycle state of an order.
// It implements a state machine with a fixed transition table so that orders
// follow the correct fulfillment workflow.
//
// Happy path:
//
//	Pending → Confirmed → Processing → Shipped → OutForDelivery → Delivered
//
// Cancelled is reachable from every non-terminal state; Returned is reachable
// once the order has shipped and leads only to Refunded. Delivered is reachable
// only from OutForDelivery, via a successful delivery attempt.
//
// Delivered, Cancelled, and Refunded have no outgoing transitions.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status: the order is placed and awaiting payment.
	Pending

	// Confirmed indicates payment has been captured.
	Confirmed

	// Processing indicates the order is being prepared and has a delivery agent assigned.
	Processing

	// Shipped indicates the order has left the warehouse.
	Shipped

	// OutForDelivery indicates the assigned agent is delivering the order.
	OutForDelivery

	// Delivered indicates a successful delivery attempt completed the order.
	// Terminal except for refund sub-state changes on the payment record.
	Delivered

	// Cancelled indicates the order was cancelled before delivery. Terminal.
	Cancelled

	// Returned indicates the customer returned the order after shipment.
	Returned

	// Refunded indicates the payment was returned to the customer. Terminal.
	Refunded
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Pending:        "pending",
		Confirmed:      "confirmed",
		Processing:     "processing",
		Shipped:        "shipped",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		Cancelled:      "cancelled",
		Returned:       "returned",
		Refunded:       "refunded",
	}
}

// StatusFromString parses the string representation of a status.
// Returns an error for names not in the lifecycle, including "unknown".
func StatusFromString(name string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == name && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", name))
}

// getValidTransitions returns the fixed transition table of the order state machine.
// A status absent from the map has no outgoing transitions and is terminal.
func getValidTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:        {Confirmed, Cancelled},
		Confirmed:      {Processing, Cancelled},
		Processing:     {Shipped, Cancelled},
		Shipped:        {OutForDelivery, Cancelled, Returned},
		OutForDelivery: {Delivered, Cancelled, Returned},
		Returned:       {Refunded},
	}
}

// Validate checks if the Status value is one of the defined lifecycle states.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status has no outgoing transitions.
// Terminal statuses are Delivered, Cancelled, and Refunded.
func (s Status) IsTerminal() bool {
	if s.Validate() != nil {
		return false
	}
	_, hasOutgoing := getValidTransitions()[s]
	return !hasOutgoing
}

// CanTransitionTo reports whether the transition table allows moving to target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range getValidTransitions()[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo transitions the status to target.
//
// Returns:
//   - (target, nil) when the transition table allows the move
//   - (0, ErrInvalidTransition) otherwise; the caller's status is unchanged
//
// This method is the single gate through which Order status changes; Order
// methods never assign status directly.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return 0, err
	}
	if !s.CanTransitionTo(target) {
		return 0, fmt.Errorf("%w: %s cannot move to %s", ErrInvalidTransition, s, target)
	}
	return target, nil
}

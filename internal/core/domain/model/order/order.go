package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// maxAutoReschedules bounds automatic retries after failed delivery attempts.
// Exceeding the cap forces manual resolution instead of endless rescheduling.
const maxAutoReschedules = 3

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrInvalidState is returned when an operation is not valid for the order's
	// current lifecycle or delivery state, e.g. uploading proof before any
	// delivery attempt, or assigning an agent to an unpaid order.
	ErrInvalidState = errors.New("operation is not valid for the current order state")

	// ErrRescheduleLimitReached is returned when automatic rescheduling would
	// exceed the bounded retry cap; the order then awaits manual resolution.
	ErrRescheduleLimitReached = errors.New("automatic reschedule limit reached")
)

// Order is the aggregate root of the fulfillment pipeline. It owns the order
// lifecycle state machine, the payment and delivery sub-records, the pricing
// breakdown, and the append-only timeline.
//
// Order follows these invariants:
//   - Status changes only through the transition table; every successful
//     transition appends exactly one timeline entry
//   - Pricing is recomputed on any items/shipping/tax/discount mutation, so
//     total == subtotal + shipping + tax - discount at all times
//   - Payment status is monotonic along Pending → Completed|Failed; refund
//     states are reachable only through explicit refund operations
//   - Delivery attempts are 1-based, strictly increasing, and immutable
//   - Terminal statuses accept no further mutation except refund sub-state
//
// All mutation happens through methods on the aggregate; the struct's private
// fields make direct mutation impossible outside this package.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// zone is the delivery zone (postal or city identifier) used by assignment
	zone string

	// items are the order lines; subtotal derives from them
	items []Item

	// pricing is the monetary breakdown, recomputed on every pricing mutation
	pricing Pricing

	// payment is the gateway payment sub-record
	payment Payment

	// delivery is the agent assignment and attempt history sub-record
	delivery Delivery

	// status is the current lifecycle state
	status Status

	// timeline is the append-only audit trail of transitions
	timeline []TimelineEntry

	// reservationReleased marks that the inventory reservation was given back
	reservationReleased bool

	// placedAt is when the order was created
	placedAt time.Time

	// version supports optimistic concurrency control in the repository
	version int

	// guard ensures the order was created via a constructor
	guard guard.ConstructorGuard
}

// NewOrder creates a new Order in Pending status with a pending payment record
// and an empty delivery record. Pricing is computed from the items and the
// shipping/tax/discount figures, never trusted from input.
//
// Parameters:
//   - id: unique order identifier
//   - zone: delivery zone identifier (required, drives agent selection)
//   - items: at least one order line
//   - paymentMethod: method chosen at checkout
//   - gatewayOrderID: gateway-assigned identifier linking webhooks to this order
//   - shipping, tax, discount: pricing components in minor units
//   - actor: who placed the order, recorded in the first timeline entry
//
// Returns the constructed order, or a validation error if any parameter is
// invalid. The first timeline entry records the Pending status.
func NewOrder(
	id kernel.UUID,
	zone string,
	items []Item,
	paymentMethod string,
	gatewayOrderID string,
	shipping, tax, discount kernel.Money,
	actor string,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if zone == "" {
		return nil, errs.NewValueIsRequiredError("zone")
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}

	payment, err := NewPayment(paymentMethod, gatewayOrderID)
	if err != nil {
		return nil, err
	}

	pricing, err := computePricing(items, shipping, tax, discount)
	if err != nil {
		return nil, err
	}

	o := &Order{
		id:       id,
		zone:     zone,
		items:    append([]Item(nil), items...),
		pricing:  pricing,
		payment:  payment,
		delivery: NewDelivery(),
		status:   Pending,
		placedAt: time.Now().UTC(),
		version:  1,
		guard:    guard.NewConstructorGuard(),
	}
	o.appendTimeline(Pending, actor, "order placed", false)

	return o, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage,
// preserving its lifecycle state, sub-records, timeline, and version.
// The pricing invariant is re-validated on the way in.
func RestoreOrder(
	id kernel.UUID,
	zone string,
	items []Item,
	pricing Pricing,
	payment Payment,
	delivery Delivery,
	status Status,
	timeline []TimelineEntry,
	reservationReleased bool,
	placedAt time.Time,
	version int,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		status.Validate(),
		pricing.Validate(),
	); err != nil {
		return nil, err
	}
	if version <= 0 {
		return nil, errs.NewVersionIsInvalidErrorWithCause("order")
	}

	return &Order{
		id:                  id,
		zone:                zone,
		items:               items,
		pricing:             pricing,
		payment:             payment,
		delivery:            delivery,
		status:              status,
		timeline:            timeline,
		reservationReleased: reservationReleased,
		placedAt:            placedAt,
		version:             version,
		guard:               guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Zone returns the delivery zone identifier.
func (o *Order) Zone() string {
	return o.zone
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

// Pricing returns the current pricing breakdown.
func (o *Order) Pricing() Pricing {
	return o.pricing
}

// Payment returns the payment sub-record.
func (o *Order) Payment() Payment {
	return o.payment
}

// Delivery returns the delivery sub-record.
func (o *Order) Delivery() Delivery {
	return o.delivery
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Timeline returns a copy of the append-only timeline in recording order.
func (o *Order) Timeline() []TimelineEntry {
	out := make([]TimelineEntry, len(o.timeline))
	copy(out, o.timeline)
	return out
}

// ReservationReleased reports whether the inventory reservation was released.
func (o *Order) ReservationReleased() bool {
	return o.reservationReleased
}

// PlacedAt returns when the order was created.
func (o *Order) PlacedAt() time.Time {
	return o.placedAt
}

// Version returns the optimistic-concurrency version the aggregate was loaded at.
func (o *Order) Version() int {
	return o.version
}

// TransitionTo moves the order to the target lifecycle status.
//
// The transition table is enforced centrally: any pair not in the table fails
// with ErrInvalidTransition and leaves the order unchanged. Every successful
// transition appends exactly one timeline entry; this method is the only way
// status changes.
//
// The delivery sub-state is kept consistent for the transitions that imply it:
// OutForDelivery, Delivered, and Cancelled.
func (o *Order) TransitionTo(target Status, actor, note string, automated bool) error {
	next, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}

	o.status = next
	o.appendTimeline(next, actor, note, automated)

	switch next {
	case OutForDelivery:
		if o.delivery.agentID != nil {
			o.delivery.status = DeliveryOutForDelivery
		}
	case Delivered:
		o.delivery.status = DeliveryDelivered
	case Cancelled:
		o.delivery.status = DeliveryCancelled
	}

	return nil
}

// Cancel transitions the order to Cancelled.
//
// Cancelling an already-cancelled order is a no-op returning (false, nil), not
// an error. A positive refundAmount marks the payment as refunded pending
// reconciliation with the gateway. The inventory reservation release and the
// agent capacity release are coordinated by the caller, which observes the
// returned changed flag.
//
// Returns:
//   - (true, nil) when the order moved to Cancelled
//   - (false, nil) when it already was Cancelled
//   - (false, ErrInvalidTransition) when the current status forbids cancellation
func (o *Order) Cancel(reason, actor string, refundAmount kernel.Money) (bool, error) {
	if o.status == Cancelled {
		return false, nil
	}

	if err := o.TransitionTo(Cancelled, actor, reason, false); err != nil {
		return false, err
	}

	o.delivery.agentID = nil
	if !refundAmount.IsZero() {
		o.payment.status = PaymentRefunded
	}

	return true, nil
}

// ApplyPaymentCapture applies a successful capture reported by the gateway.
//
// Idempotent with respect to payment state: if the payment is already
// Completed (or refunded), the call is a no-op returning (false, nil) so that
// out-of-order or duplicate gateway events cannot double-apply. On first
// application the payment record is filled in and, if the order is still
// Pending, it transitions to Confirmed.
func (o *Order) ApplyPaymentCapture(gatewayPaymentID string, amount kernel.Money, paidAt time.Time) (bool, error) {
	switch o.payment.status {
	case PaymentCompleted, PaymentRefunded, PaymentPartiallyRefunded:
		return false, nil
	}

	if gatewayPaymentID == "" {
		return false, errs.NewValueIsRequiredError("gateway payment id")
	}

	o.payment.status = PaymentCompleted
	o.payment.gatewayPaymentID = gatewayPaymentID
	o.payment.paidAmount = amount
	paidAtUTC := paidAt.UTC()
	o.payment.paidAt = &paidAtUTC
	o.payment.failureReason = ""

	if o.status == Pending {
		if err := o.TransitionTo(Confirmed, "payment-gateway", "payment captured", true); err != nil {
			return false, err
		}
	}

	return true, nil
}

// ApplyPaymentFailure records a failed capture attempt.
//
// The order stays Pending so the customer can retry; the retry counter
// increments and the failure reason is recorded. A failure arriving after a
// successful capture is ignored (payment status is monotonic) and reported as
// not applied.
func (o *Order) ApplyPaymentFailure(reason string) bool {
	switch o.payment.status {
	case PaymentCompleted, PaymentRefunded, PaymentPartiallyRefunded:
		return false
	}

	o.payment.status = PaymentFailed
	o.payment.retryCount++
	o.payment.failureReason = reason

	return true
}

// MarkRefunded applies an explicit refund of the given amount against the
// captured payment. Anything less than the paid amount yields
// PartiallyRefunded; the full amount yields Refunded. This is the only path
// from Completed to a refund state.
func (o *Order) MarkRefunded(amount kernel.Money) error {
	if o.payment.status != PaymentCompleted && o.payment.status != PaymentPartiallyRefunded {
		return fmt.Errorf("%w: payment is %s, not captured", ErrInvalidState, o.payment.status)
	}
	if o.payment.paidAmount.IsLess(amount) {
		return errs.NewValueIsInvalidErrorWithCause(
			"refund amount",
			fmt.Errorf("%s exceeds paid amount %s", amount, o.payment.paidAmount),
		)
	}

	if amount.IsEqual(o.payment.paidAmount) {
		o.payment.status = PaymentRefunded
	} else {
		o.payment.status = PaymentPartiallyRefunded
	}

	return nil
}

// AssignAgent assigns a delivery agent to the order.
//
// Preconditions: the order is paid (at least Confirmed), not terminal, and not
// already delivered. The caller is responsible for the agent-side capacity
// check; this method records only the order side of the association.
//
// A Confirmed order transitions to Processing; orders already past Processing
// keep their status (re-assignment after a failed attempt must not rewind the
// lifecycle) and get an annotation entry on the timeline instead.
func (o *Order) AssignAgent(agentID kernel.UUID, estimatedAt *time.Time, actor string, automated bool) error {
	if err := agentID.Validate(); err != nil {
		return err
	}
	if o.status == Pending {
		return fmt.Errorf("%w: payment is not confirmed", ErrInvalidState)
	}
	if o.status.IsTerminal() || o.status == Returned {
		return fmt.Errorf("%w: order is %s", ErrInvalidState, o.status)
	}
	if o.delivery.status == DeliveryDelivered {
		return fmt.Errorf("%w: order is already delivered", ErrInvalidState)
	}

	o.delivery.agentID = &agentID
	o.delivery.status = DeliveryAssigned
	o.delivery.estimatedAt = estimatedAt

	if o.status == Confirmed {
		return o.TransitionTo(Processing, actor, "delivery agent assigned", automated)
	}

	o.appendTimeline(o.status, actor, "delivery agent reassigned", automated)
	return nil
}

// Unassign removes the agent association and returns the released agent id,
// or nil if no agent was assigned. The delivery record returns to Pending so
// a new assignment can be attempted. The caller releases the agent's capacity
// slot using the returned id.
func (o *Order) Unassign() *kernel.UUID {
	released := o.delivery.agentID
	o.delivery.agentID = nil
	if o.delivery.status != DeliveryCancelled {
		o.delivery.status = DeliveryPending
	}
	return released
}

// RecordAttempt appends a delivery attempt and applies its outcome.
//
// The attempt number is len(existing attempts) + 1. Effects by status:
//   - AttemptSuccessful: the order transitions to Delivered (valid only from
//     OutForDelivery); the caller releases the agent's capacity slot and
//     updates the agent's performance counters
//   - AttemptFailed: the delivery record moves to Attempted; the order stays
//     non-terminal and the capacity slot is kept
//   - AttemptRescheduled: requires a future nextAttemptAt; the delivery record
//     moves to Rescheduled and the order status is unchanged
//
// The attempt must come from the currently assigned agent.
func (o *Order) RecordAttempt(
	status AttemptStatus,
	reason string,
	agentID kernel.UUID,
	nextAttemptAt *time.Time,
) (Attempt, error) {
	if err := status.Validate(); err != nil {
		return Attempt{}, err
	}
	if err := agentID.Validate(); err != nil {
		return Attempt{}, err
	}
	if o.delivery.agentID == nil || !o.delivery.agentID.IsEqual(agentID) {
		return Attempt{}, fmt.Errorf("%w: agent %s is not assigned to this order", ErrInvalidState, agentID)
	}

	switch status {
	case AttemptSuccessful:
		if err := o.TransitionTo(Delivered, agentID.String(), "delivered to customer", false); err != nil {
			return Attempt{}, err
		}
	case AttemptFailed:
		o.delivery.status = DeliveryAttempted
	case AttemptRescheduled:
		if nextAttemptAt == nil {
			return Attempt{}, errs.NewValueIsRequiredError("next attempt date")
		}
		if !nextAttemptAt.After(time.Now()) {
			return Attempt{}, errs.NewValueIsInvalidErrorWithCause(
				"next attempt date",
				fmt.Errorf("%s is not in the future", nextAttemptAt),
			)
		}
		o.delivery.status = DeliveryRescheduled
	}

	attempt := Attempt{
		number:        len(o.delivery.attempts) + 1,
		status:        status,
		reason:        reason,
		agentID:       agentID,
		nextAttemptAt: nextAttemptAt,
		recordedAt:    time.Now().UTC(),
	}
	o.delivery.attempts = append(o.delivery.attempts, attempt)

	return attempt, nil
}

// CanAutoReschedule reports whether another automatic reschedule is allowed
// under the bounded retry cap.
func (o *Order) CanAutoReschedule() bool {
	return o.delivery.autoReschedules < maxAutoReschedules
}

// AutoReschedule records a rescheduled attempt on behalf of the retry policy
// and counts it against the automatic reschedule cap. Manual reschedules via
// RecordAttempt do not consume the cap.
//
// Returns ErrRescheduleLimitReached once the cap is exhausted; the order then
// stays in Attempted awaiting manual resolution.
func (o *Order) AutoReschedule(nextAttemptAt time.Time, reason string) (Attempt, error) {
	if !o.CanAutoReschedule() {
		return Attempt{}, ErrRescheduleLimitReached
	}
	if o.delivery.agentID == nil {
		return Attempt{}, fmt.Errorf("%w: no agent assigned", ErrInvalidState)
	}

	attempt, err := o.RecordAttempt(AttemptRescheduled, reason, *o.delivery.agentID, &nextAttemptAt)
	if err != nil {
		return Attempt{}, err
	}

	o.delivery.autoReschedules++
	return attempt, nil
}

// AttachProof attaches a proof-of-delivery artifact.
// Valid only when the delivery record is Attempted or Delivered; any other
// state is rejected with ErrInvalidState.
func (o *Order) AttachProof(proof Proof) error {
	if o.delivery.status != DeliveryAttempted && o.delivery.status != DeliveryDelivered {
		return fmt.Errorf("%w: delivery is %s, proof requires an attempted or delivered order",
			ErrInvalidState, o.delivery.status)
	}

	o.delivery.proof = &proof
	return nil
}

// ReleaseReservation marks the inventory reservation as released.
// Idempotent: the first call returns true, subsequent calls return false so
// callers can skip the external release on repeats.
func (o *Order) ReleaseReservation() bool {
	if o.reservationReleased {
		return false
	}
	o.reservationReleased = true
	return true
}

// SetShipping updates the shipping charge and recomputes the pricing breakdown.
func (o *Order) SetShipping(shipping kernel.Money) error {
	return o.repriceWith(o.items, shipping, o.pricing.tax, o.pricing.discount)
}

// SetTax updates the tax amount and recomputes the pricing breakdown.
func (o *Order) SetTax(tax kernel.Money) error {
	return o.repriceWith(o.items, o.pricing.shipping, tax, o.pricing.discount)
}

// SetDiscount updates the discount and recomputes the pricing breakdown.
func (o *Order) SetDiscount(discount kernel.Money) error {
	return o.repriceWith(o.items, o.pricing.shipping, o.pricing.tax, discount)
}

// SetItems replaces the order lines and recomputes the pricing breakdown.
func (o *Order) SetItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	if err := o.repriceWith(items, o.pricing.shipping, o.pricing.tax, o.pricing.discount); err != nil {
		return err
	}
	o.items = append([]Item(nil), items...)
	return nil
}

// repriceWith recomputes pricing from the given components. Terminal orders
// reject pricing mutations; a failed recompute leaves the order unchanged.
func (o *Order) repriceWith(items []Item, shipping, tax, discount kernel.Money) error {
	if o.status.IsTerminal() || o.status == Returned {
		return fmt.Errorf("%w: pricing of a %s order cannot change", ErrInvalidState, o.status)
	}

	pricing, err := computePricing(items, shipping, tax, discount)
	if err != nil {
		return err
	}

	o.pricing = pricing
	return nil
}

// appendTimeline appends an entry to the append-only timeline.
func (o *Order) appendTimeline(status Status, actor, note string, automated bool) {
	o.timeline = append(o.timeline, TimelineEntry{
		status:     status,
		occurredAt: time.Now().UTC(),
		actor:      actor,
		note:       note,
		automated:  automated,
	})
}

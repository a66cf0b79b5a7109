package order

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// DeliveryStatus represents the delivery sub-state of an order, tracked
// independently of the order lifecycle status: an order can be OutForDelivery
// while its delivery record says Attempted after a failed handoff.
type DeliveryStatus int

const (
	// DeliveryUnknown represents an invalid or undefined delivery status.
	DeliveryUnknown DeliveryStatus = iota

	// DeliveryPending means no agent is assigned yet.
	DeliveryPending

	// DeliveryAssigned means an agent holds the order in their active set.
	DeliveryAssigned

	// DeliveryOutForDelivery means the agent is en route to the customer.
	DeliveryOutForDelivery

	// DeliveryAttempted means the last handoff attempt failed and the order
	// awaits a reschedule or manual intervention.
	DeliveryAttempted

	// DeliveryDelivered means a handoff attempt succeeded.
	DeliveryDelivered

	// DeliveryFailed means delivery was abandoned after exhausting retries.
	DeliveryFailed

	// DeliveryRescheduled means a new attempt is planned for a future date.
	DeliveryRescheduled

	// DeliveryCancelled means the order was cancelled before delivery.
	DeliveryCancelled
)

// getDeliveryStatusStrings returns a map of DeliveryStatus values to their string representations.
func getDeliveryStatusStrings() map[DeliveryStatus]string {
	return map[DeliveryStatus]string{
		DeliveryUnknown:        "unknown",
		DeliveryPending:        "pending",
		DeliveryAssigned:       "assigned",
		DeliveryOutForDelivery: "out_for_delivery",
		DeliveryAttempted:      "attempted",
		DeliveryDelivered:      "delivered",
		DeliveryFailed:         "failed",
		DeliveryRescheduled:    "rescheduled",
		DeliveryCancelled:      "cancelled",
	}
}

// Validate checks if the DeliveryStatus value is one of the defined states.
func (s DeliveryStatus) Validate() error {
	if s == DeliveryUnknown {
		return errs.NewValueIsInvalidErrorWithCause("delivery status", fmt.Errorf("%d is not a valid delivery status", s))
	}
	if _, ok := getDeliveryStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("delivery status", fmt.Errorf("%d is not a valid delivery status", s))
	}
	return nil
}

// String returns the human-readable name of the delivery status.
func (s DeliveryStatus) String() string {
	if str, ok := getDeliveryStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// DeliveryStatusFromString parses the string representation of a delivery status.
func DeliveryStatusFromString(name string) (DeliveryStatus, error) {
	for status, str := range getDeliveryStatusStrings() {
		if str == name && status != DeliveryUnknown {
			return status, nil
		}
	}
	return DeliveryUnknown, errs.NewValueIsInvalidErrorWithCause(
		"delivery status", fmt.Errorf("%q is not a valid delivery status", name))
}

// AttemptStatus is the outcome of a single delivery attempt.
type AttemptStatus int

const (
	// AttemptUnknown represents an invalid or undefined attempt outcome.
	AttemptUnknown AttemptStatus = iota

	// AttemptSuccessful records a completed handoff to the customer.
	AttemptSuccessful

	// AttemptFailed records a failed handoff.
	AttemptFailed

	// AttemptRescheduled records that the attempt was deferred to a future date.
	AttemptRescheduled
)

// getAttemptStatusStrings returns a map of AttemptStatus values to their string representations.
func getAttemptStatusStrings() map[AttemptStatus]string {
	return map[AttemptStatus]string{
		AttemptUnknown:     "unknown",
		AttemptSuccessful:  "successful",
		AttemptFailed:      "failed",
		AttemptRescheduled: "rescheduled",
	}
}

// Validate checks if the AttemptStatus value is a defined outcome.
func (s AttemptStatus) Validate() error {
	if s == AttemptUnknown {
		return errs.NewValueIsInvalidErrorWithCause("attempt status", fmt.Errorf("%d is not a valid attempt status", s))
	}
	if _, ok := getAttemptStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("attempt status", fmt.Errorf("%d is not a valid attempt status", s))
	}
	return nil
}

// String returns the human-readable name of the attempt outcome.
func (s AttemptStatus) String() string {
	if str, ok := getAttemptStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// AttemptStatusFromString parses the string representation of an attempt outcome.
func AttemptStatusFromString(name string) (AttemptStatus, error) {
	for status, str := range getAttemptStatusStrings() {
		if str == name && status != AttemptUnknown {
			return status, nil
		}
	}
	return AttemptUnknown, errs.NewValueIsInvalidErrorWithCause(
		"attempt status", fmt.Errorf("%q is not a valid attempt status", name))
}

// Attempt is one recorded delivery attempt. Attempts are immutable once
// recorded and form an append-only, 1-based, strictly increasing sequence
// on the order.
type Attempt struct {
	number        int
	status        AttemptStatus
	reason        string
	agentID       kernel.UUID
	nextAttemptAt *time.Time
	recordedAt    time.Time
}

// RestoreAttempt reconstructs a delivery attempt from persistence.
func RestoreAttempt(
	number int,
	status AttemptStatus,
	reason string,
	agentID kernel.UUID,
	nextAttemptAt *time.Time,
	recordedAt time.Time,
) (Attempt, error) {
	if number <= 0 {
		return Attempt{}, errs.NewValueIsInvalidErrorWithCause(
			"attempt number",
			fmt.Errorf("%d is not greater than 0", number),
		)
	}
	if err := status.Validate(); err != nil {
		return Attempt{}, err
	}

	return Attempt{
		number:        number,
		status:        status,
		reason:        reason,
		agentID:       agentID,
		nextAttemptAt: nextAttemptAt,
		recordedAt:    recordedAt,
	}, nil
}

// Number returns the 1-based position of the attempt in the order's sequence.
func (a Attempt) Number() int {
	return a.number
}

// Status returns the attempt outcome.
func (a Attempt) Status() AttemptStatus {
	return a.status
}

// Reason returns the free-form reason recorded with the attempt.
func (a Attempt) Reason() string {
	return a.reason
}

// AgentID returns the agent who made the attempt.
func (a Attempt) AgentID() kernel.UUID {
	return a.agentID
}

// NextAttemptAt returns the planned date of the next attempt.
// Set only for rescheduled attempts; nil otherwise.
func (a Attempt) NextAttemptAt() *time.Time {
	return a.nextAttemptAt
}

// RecordedAt returns when the attempt was recorded.
func (a Attempt) RecordedAt() time.Time {
	return a.recordedAt
}

// Proof is a proof-of-delivery artifact: a signature image, a photo, or an OTP
// confirmation, optionally annotated with a location and a verifying operator.
type Proof struct {
	proofType  string
	data       string
	location   string
	verifiedBy string
	uploadedAt time.Time
}

// NewProof creates a proof-of-delivery artifact.
// Type and data are required; location and verifiedBy are optional annotations.
func NewProof(proofType, data, location, verifiedBy string) (Proof, error) {
	if proofType == "" {
		return Proof{}, errs.NewValueIsRequiredError("proof type")
	}
	if data == "" {
		return Proof{}, errs.NewValueIsRequiredError("proof data")
	}

	return Proof{
		proofType:  proofType,
		data:       data,
		location:   location,
		verifiedBy: verifiedBy,
		uploadedAt: time.Now().UTC(),
	}, nil
}

// RestoreProof reconstructs a proof artifact from persistence.
func RestoreProof(proofType, data, location, verifiedBy string, uploadedAt time.Time) Proof {
	return Proof{
		proofType:  proofType,
		data:       data,
		location:   location,
		verifiedBy: verifiedBy,
		uploadedAt: uploadedAt,
	}
}

// Type returns the kind of proof (signature, photo, otp).
func (p Proof) Type() string {
	return p.proofType
}

// Data returns the proof payload, typically a storage reference or encoded blob.
func (p Proof) Data() string {
	return p.data
}

// Location returns where the proof was captured, empty if not provided.
func (p Proof) Location() string {
	return p.location
}

// VerifiedBy returns the operator who verified the proof, empty if unverified.
func (p Proof) VerifiedBy() string {
	return p.verifiedBy
}

// UploadedAt returns when the proof was attached to the order.
func (p Proof) UploadedAt() time.Time {
	return p.uploadedAt
}

// Delivery is the delivery record embedded in an Order aggregate: the assigned
// agent, the delivery sub-state, the append-only attempt history, and the
// proof of delivery. Delivery is mutated only through Order methods.
type Delivery struct {
	agentID         *kernel.UUID
	status          DeliveryStatus
	estimatedAt     *time.Time
	attempts        []Attempt
	proof           *Proof
	autoReschedules int
}

// NewDelivery creates the initial delivery record: unassigned, no attempts.
func NewDelivery() Delivery {
	return Delivery{status: DeliveryPending}
}

// RestoreDelivery reconstructs a delivery record from persistence.
func RestoreDelivery(
	agentID *kernel.UUID,
	status DeliveryStatus,
	estimatedAt *time.Time,
	attempts []Attempt,
	proof *Proof,
	autoReschedules int,
) (Delivery, error) {
	if err := status.Validate(); err != nil {
		return Delivery{}, err
	}

	return Delivery{
		agentID:         agentID,
		status:          status,
		estimatedAt:     estimatedAt,
		attempts:        attempts,
		proof:           proof,
		autoReschedules: autoReschedules,
	}, nil
}

// AgentID returns the assigned agent's id, nil when unassigned.
func (d Delivery) AgentID() *kernel.UUID {
	return d.agentID
}

// Status returns the delivery sub-state.
func (d Delivery) Status() DeliveryStatus {
	return d.status
}

// EstimatedAt returns the promised delivery time, nil if none was given.
func (d Delivery) EstimatedAt() *time.Time {
	return d.estimatedAt
}

// Attempts returns a copy of the attempt history in recording order.
func (d Delivery) Attempts() []Attempt {
	out := make([]Attempt, len(d.attempts))
	copy(out, d.attempts)
	return out
}

// Proof returns the attached proof of delivery, nil if none was uploaded.
func (d Delivery) Proof() *Proof {
	return d.proof
}

// AutoReschedules returns how many times the order was automatically
// rescheduled after failed attempts.
func (d Delivery) AutoReschedules() int {
	return d.autoReschedules
}

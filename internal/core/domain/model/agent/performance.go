package agent

import (
	"fulfillment/internal/pkg/errs"
)

const (
	minCustomerRating = 0.0
	maxCustomerRating = 5.0
)

// Performance accumulates an agent's delivery record.
//
// Total, successful, and failed counters grow monotonically as outcomes are
// recorded. The success rate is derived on read and never stored, so the
// counters remain the single source of truth. The customer rating is set by
// an external rating pipeline, bounded to the 0..5 scale.
type Performance struct {
	// totalDeliveries is the number of recorded delivery outcomes
	totalDeliveries int
	// successfulDeliveries counts outcomes that reached the customer
	successfulDeliveries int
	// failedDeliveries counts outcomes that did not
	failedDeliveries int
	// customerRating is the agent's average rating on a 0..5 scale
	customerRating float64
}

// NewPerformance creates an empty performance record for a new agent.
func NewPerformance() Performance {
	return Performance{}
}

// RestorePerformance reconstructs a performance record from persistence.
// The counters must be non-negative and consistent, and the rating bounded.
func RestorePerformance(total, successful, failed int, customerRating float64) (Performance, error) {
	if total < 0 || successful < 0 || failed < 0 {
		return Performance{}, errs.NewValueIsInvalidError("delivery counters")
	}
	if successful+failed != total {
		return Performance{}, errs.NewValueIsInvalidError("delivery counters")
	}
	if customerRating < minCustomerRating || customerRating > maxCustomerRating {
		return Performance{}, errs.NewValueIsOutOfRangeError(
			"customer rating", customerRating, minCustomerRating, maxCustomerRating)
	}

	return Performance{
		totalDeliveries:      total,
		successfulDeliveries: successful,
		failedDeliveries:     failed,
		customerRating:       customerRating,
	}, nil
}

// TotalDeliveries returns the number of recorded delivery outcomes.
func (p Performance) TotalDeliveries() int {
	return p.totalDeliveries
}

// SuccessfulDeliveries returns the number of successful outcomes.
func (p Performance) SuccessfulDeliveries() int {
	return p.successfulDeliveries
}

// FailedDeliveries returns the number of failed outcomes.
func (p Performance) FailedDeliveries() int {
	return p.failedDeliveries
}

// CustomerRating returns the agent's average customer rating.
func (p Performance) CustomerRating() float64 {
	return p.customerRating
}

// SuccessRate returns the share of successful outcomes in 0..1.
// An agent with no recorded outcomes has a rate of 0.
func (p Performance) SuccessRate() float64 {
	if p.totalDeliveries == 0 {
		return 0
	}
	return float64(p.successfulDeliveries) / float64(p.totalDeliveries)
}

// record adds one delivery outcome to the counters.
func (p *Performance) record(success bool) {
	p.totalDeliveries++
	if success {
		p.successfulDeliveries++
	} else {
		p.failedDeliveries++
	}
}

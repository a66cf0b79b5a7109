package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValidate(t *testing.T) {
	t.Run("should return error when status is unknown", func(t *testing.T) {
		err := Unknown.Validate()
		assert.Error(t, err)
	})

	t.Run("should return nil for all known statuses", func(t *testing.T) {
		for _, s := range []Status{
			Pending, Confirmed, Processing, Shipped,
			OutForDelivery, Delivered, Cancelled, Returned, Refunded,
		} {
			assert.NoError(t, s.Validate(), s.String())
		}
	})
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "out_for_delivery", OutForDelivery.String())
	assert.Equal(t, "refunded", Refunded.String())
}

func TestStatusIsTerminal(t *testing.T) {
	terminal := map[Status]bool{
		Delivered: true,
		Cancelled: true,
		Refunded:  true,
	}

	for _, s := range []Status{
		Pending, Confirmed, Processing, Shipped,
		OutForDelivery, Delivered, Cancelled, Returned, Refunded,
	} {
		assert.Equal(t, terminal[s], s.IsTerminal(), s.String())
	}
}

func TestStatusTransitionTo(t *testing.T) {
	allowed := map[Status][]Status{
		Pending:        {Confirmed, Cancelled},
		Confirmed:      {Processing, Cancelled},
		Processing:     {Shipped, Cancelled},
		Shipped:        {OutForDelivery, Cancelled, Returned},
		OutForDelivery: {Delivered, Cancelled, Returned},
		Returned:       {Refunded},
	}

	all := []Status{
		Pending, Confirmed, Processing, Shipped,
		OutForDelivery, Delivered, Cancelled, Returned, Refunded,
	}

	t.Run("should allow every transition in the table", func(t *testing.T) {
		for from, targets := range allowed {
			for _, to := range targets {
				next, err := from.TransitionTo(to)
				assert.NoError(t, err, "%s -> %s", from, to)
				assert.Equal(t, to, next)
			}
		}
	})

	t.Run("should reject every pair not in the table", func(t *testing.T) {
		isAllowed := func(from, to Status) bool {
			for _, s := range allowed[from] {
				if s == to {
					return true
				}
			}
			return false
		}

		for _, from := range all {
			for _, to := range all {
				if isAllowed(from, to) {
					continue
				}
				_, err := from.TransitionTo(to)
				assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", from, to)
			}
		}
	})

	t.Run("should name both statuses in the error", func(t *testing.T) {
		_, err := Delivered.TransitionTo(Pending)
		assert.ErrorContains(t, err, "delivered")
		assert.ErrorContains(t, err, "pending")
	})
}

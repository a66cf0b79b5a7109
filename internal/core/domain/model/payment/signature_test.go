package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/domain/model/kernel"
)

func TestSignatureVerifier(t *testing.T) {
	verifier, err := NewSignatureVerifier("whsec_test_secret")
	require.NoError(t, err)

	t.Run("should accept a signature produced with the same secret", func(t *testing.T) {
		sig := verifier.Sign("gw_order_1", "gw_pay_1")
		assert.NoError(t, verifier.Verify("gw_order_1", "gw_pay_1", sig))
	})

	t.Run("should reject a tampered signature", func(t *testing.T) {
		sig := verifier.Sign("gw_order_1", "gw_pay_1")
		tampered := sig[:len(sig)-1] + "0"
		if tampered == sig {
			tampered = sig[:len(sig)-1] + "1"
		}

		assert.ErrorIs(t, verifier.Verify("gw_order_1", "gw_pay_1", tampered), ErrSignatureInvalid)
	})

	t.Run("should reject a signature over different identifiers", func(t *testing.T) {
		sig := verifier.Sign("gw_order_1", "gw_pay_1")
		assert.ErrorIs(t, verifier.Verify("gw_order_2", "gw_pay_1", sig), ErrSignatureInvalid)
	})

	t.Run("should reject a signature from another secret", func(t *testing.T) {
		other, err := NewSignatureVerifier("whsec_other_secret")
		require.NoError(t, err)

		sig := other.Sign("gw_order_1", "gw_pay_1")
		assert.ErrorIs(t, verifier.Verify("gw_order_1", "gw_pay_1", sig), ErrSignatureInvalid)
	})

	t.Run("should reject an empty signature", func(t *testing.T) {
		assert.ErrorIs(t, verifier.Verify("gw_order_1", "gw_pay_1", ""), ErrSignatureInvalid)
	})

	t.Run("should require a secret", func(t *testing.T) {
		_, err := NewSignatureVerifier("")
		assert.Error(t, err)
	})
}

func TestEvent(t *testing.T) {
	t.Run("should create an event keyed by the gateway event id", func(t *testing.T) {
		e, err := NewEvent(kernel.NewUUID(), "evt_123", EventPaymentCaptured, `{"ok":true}`)

		require.NoError(t, err)
		assert.NoError(t, e.Validate())
		assert.Equal(t, "evt_123", e.EventID())
		assert.Equal(t, EventPaymentCaptured, e.EventType())
		assert.False(t, e.ProcessedAt().IsZero())
	})

	t.Run("should require the event id and type", func(t *testing.T) {
		_, err := NewEvent(kernel.NewUUID(), "", EventPaymentCaptured, "{}")
		assert.Error(t, err)

		_, err = NewEvent(kernel.NewUUID(), "evt_123", "", "{}")
		assert.Error(t, err)
	})
}

func TestIsKnownEventType(t *testing.T) {
	assert.True(t, IsKnownEventType(EventPaymentCaptured))
	assert.True(t, IsKnownEventType(EventPaymentFailed))
	assert.True(t, IsKnownEventType(EventOrderPaid))
	assert.False(t, IsKnownEventType("invoice.created"))
}

package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("should create money from non-negative amounts", func(t *testing.T) {
		for _, amount := range []int64{0, 1, 100000} {
			m, err := kernel.NewMoney(amount)

			require.NoError(t, err)
			assert.Equal(t, amount, m.Amount())
		}
	})

	t.Run("should reject negative amounts", func(t *testing.T) {
		_, err := kernel.NewMoney(-1)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	t.Run("should add amounts", func(t *testing.T) {
		a, _ := kernel.NewMoney(100000)
		b, _ := kernel.NewMoney(5000)

		assert.Equal(t, int64(105000), a.Add(b).Amount())
	})

	t.Run("should subtract smaller from larger", func(t *testing.T) {
		a, _ := kernel.NewMoney(100000)
		b, _ := kernel.NewMoney(5000)

		result, err := a.Sub(b)

		require.NoError(t, err)
		assert.Equal(t, int64(95000), result.Amount())
	})

	t.Run("should reject subtraction below zero", func(t *testing.T) {
		a, _ := kernel.NewMoney(5000)
		b, _ := kernel.NewMoney(100000)

		_, err := a.Sub(b)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should multiply by quantity", func(t *testing.T) {
		unitPrice, _ := kernel.NewMoney(2500)

		result, err := unitPrice.MulInt(4)

		require.NoError(t, err)
		assert.Equal(t, int64(10000), result.Amount())
	})

	t.Run("should reject negative factors", func(t *testing.T) {
		unitPrice, _ := kernel.NewMoney(2500)

		_, err := unitPrice.MulInt(-1)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestMoney_Comparison(t *testing.T) {
	t.Run("should compare amounts", func(t *testing.T) {
		a, _ := kernel.NewMoney(100)
		b, _ := kernel.NewMoney(200)

		assert.True(t, a.IsLess(b))
		assert.False(t, b.IsLess(a))
		assert.True(t, a.IsEqual(a))
		assert.False(t, a.IsEqual(b))
	})

	t.Run("zero value is a valid zero amount", func(t *testing.T) {
		var m kernel.Money

		assert.True(t, m.IsZero())
		assert.True(t, m.IsEqual(kernel.ZeroMoney()))
	})
}

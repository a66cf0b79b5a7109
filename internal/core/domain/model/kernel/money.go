package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Money is a value object representing a monetary amount in minor currency units
// (e.g., cents, kopecks). Amounts are always non-negative; subtraction that would
// produce a negative amount fails instead of wrapping.
//
// Money is immutable: arithmetic methods return new values. The zero value is a
// valid zero amount, which lets aggregates embed Money fields without explicit
// initialization for free orders or absent discounts.
//
// Example usage:
//
//	subtotal, _ := kernel.NewMoney(100000)
//	shipping, _ := kernel.NewMoney(5000)
//	total := subtotal.Add(shipping)
//	fmt.Println(total.Amount()) // 105000
type Money struct {
	amount int64
}

// NewMoney creates a Money value from an amount in minor units.
// Negative amounts are rejected with a ValueIsOutOfRangeError.
//
// Example:
//
//	tax, err := kernel.NewMoney(9000)
//	if err != nil {
//	    return err
//	}
func NewMoney(amount int64) (Money, error) {
	if amount < 0 {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", amount, 0, int64(1<<62))
	}
	return Money{amount: amount}, nil
}

// ZeroMoney returns a zero amount. Equivalent to the Money zero value,
// provided for readability at call sites.
func ZeroMoney() Money {
	return Money{}
}

// Amount returns the amount in minor units.
func (m Money) Amount() int64 {
	return m.amount
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount == 0
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount + other.amount}
}

// Sub returns the difference of two amounts.
// Returns an error if the result would be negative.
func (m Money) Sub(other Money) (Money, error) {
	if other.amount > m.amount {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount",
			fmt.Errorf("%d cannot be subtracted from %d", other.amount, m.amount),
		)
	}
	return Money{amount: m.amount - other.amount}, nil
}

// MulInt returns the amount multiplied by a non-negative integer factor.
// Used to price order items: unit price times quantity.
func (m Money) MulInt(factor int) (Money, error) {
	if factor < 0 {
		return Money{}, errs.NewValueIsOutOfRangeError("factor", factor, 0, int(1<<31))
	}
	return Money{amount: m.amount * int64(factor)}, nil
}

// IsLess reports whether m is strictly less than other.
func (m Money) IsLess(other Money) bool {
	return m.amount < other.amount
}

// IsEqual compares two amounts for equality.
func (m Money) IsEqual(other Money) bool {
	return m.amount == other.amount
}

// String returns the amount in minor units as a decimal string.
// Formatting into major units is a presentation concern and lives outside the domain.
func (m Money) String() string {
	return fmt.Sprintf("%d", m.amount)
}

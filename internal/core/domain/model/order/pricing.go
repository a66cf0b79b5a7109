package order

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Item is a value object representing one order line: a product, a quantity,
// and the unit price at the time of placement. Items are immutable.
type Item struct {
	productID string
	quantity  int
	unitPrice kernel.Money
}

// NewItem creates an order line with a positive quantity.
func NewItem(productID string, quantity int, unitPrice kernel.Money) (Item, error) {
	if productID == "" {
		return Item{}, errs.NewValueIsRequiredError("product id")
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause(
			"quantity",
			fmt.Errorf("%d is not greater than 0", quantity),
		)
	}

	return Item{productID: productID, quantity: quantity, unitPrice: unitPrice}, nil
}

// ProductID returns the product identifier of the line.
func (i Item) ProductID() string {
	return i.productID
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitPrice returns the unit price at placement time.
func (i Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

// lineTotal returns quantity times unit price.
func (i Item) lineTotal() (kernel.Money, error) {
	return i.unitPrice.MulInt(i.quantity)
}

// Pricing is the value object holding the monetary breakdown of an order.
//
// Invariant: total == subtotal + shipping + tax - discount. Pricing is never
// trusted from input; it is always recomputed from the items and the shipping,
// tax, and discount figures via computePricing whenever any of them change.
type Pricing struct {
	subtotal kernel.Money
	shipping kernel.Money
	tax      kernel.Money
	discount kernel.Money
	total    kernel.Money
}

// computePricing derives the subtotal from the items and the total from all
// components. Returns an error if the discount exceeds the gross amount,
// since totals can never be negative.
func computePricing(items []Item, shipping, tax, discount kernel.Money) (Pricing, error) {
	subtotal := kernel.ZeroMoney()
	for _, item := range items {
		line, err := item.lineTotal()
		if err != nil {
			return Pricing{}, err
		}
		subtotal = subtotal.Add(line)
	}

	gross := subtotal.Add(shipping).Add(tax)
	total, err := gross.Sub(discount)
	if err != nil {
		return Pricing{}, errs.NewValueIsInvalidErrorWithCause("discount", err)
	}

	return Pricing{
		subtotal: subtotal,
		shipping: shipping,
		tax:      tax,
		discount: discount,
		total:    total,
	}, nil
}

// RestorePricing reconstructs a pricing record from persistence and
// re-validates the total invariant on the way in.
func RestorePricing(subtotal, shipping, tax, discount, total kernel.Money) (Pricing, error) {
	pricing := Pricing{
		subtotal: subtotal,
		shipping: shipping,
		tax:      tax,
		discount: discount,
		total:    total,
	}
	if err := pricing.Validate(); err != nil {
		return Pricing{}, err
	}
	return pricing, nil
}

// Validate checks the total invariant: total == subtotal + shipping + tax - discount.
func (p Pricing) Validate() error {
	gross := p.subtotal.Add(p.shipping).Add(p.tax)
	expected, err := gross.Sub(p.discount)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("discount", err)
	}
	if !p.total.IsEqual(expected) {
		return errs.NewValueIsInvalidErrorWithCause(
			"total",
			fmt.Errorf("%s does not equal subtotal %s + shipping %s + tax %s - discount %s",
				p.total, p.subtotal, p.shipping, p.tax, p.discount),
		)
	}
	return nil
}

// Subtotal returns the sum of all item line totals.
func (p Pricing) Subtotal() kernel.Money {
	return p.subtotal
}

// Shipping returns the shipping charge.
func (p Pricing) Shipping() kernel.Money {
	return p.shipping
}

// Tax returns the tax amount.
func (p Pricing) Tax() kernel.Money {
	return p.tax
}

// Discount returns the discount amount.
func (p Pricing) Discount() kernel.Money {
	return p.discount
}

// Total returns the amount the customer pays.
func (p Pricing) Total() kernel.Money {
	return p.total
}

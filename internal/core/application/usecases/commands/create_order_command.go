package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrZoneIsRequired  = errors.New("zone is required")
	ErrItemsAreInvalid = errors.New("at least one item with positive quantity and price is required")
)

// OrderItemInput is one order line as submitted at checkout. Prices are in
// minor currency units.
type OrderItemInput struct {
	ProductID string
	Quantity  int
	UnitPrice int64
}

// CreateOrderCommand represents a request to place a new order.
// Encapsulates the order lines, delivery zone, payment method, and the
// pricing components; the totals are computed by the domain, never accepted
// from the caller.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), "zone-south-7",
//	    items, "card", "gw_order_81", 500, 900, 0, "customer")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, inventory, audit)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to place order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	zone           string
	items          []OrderItemInput
	paymentMethod  string
	gatewayOrderID string
	shipping       int64
	tax            int64
	discount       int64
	actor          string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order.
// Validates that the order ID is valid, the zone is set, every item has a
// positive quantity and a non-negative price, and the pricing components are
// non-negative. Returns an error if any validation fails.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	zone string,
	items []OrderItemInput,
	paymentMethod string,
	gatewayOrderID string,
	shipping, tax, discount int64,
	actor string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setZone(zone),
		cmd.setItems(items),
		cmd.setPaymentMethod(paymentMethod),
		cmd.setGatewayOrderID(gatewayOrderID),
		cmd.setPricing(shipping, tax, discount),
		cmd.setActor(actor),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Zone returns the delivery zone identifier.
func (c CreateOrderCommand) Zone() string {
	return c.zone
}

// Items returns the submitted order lines.
func (c CreateOrderCommand) Items() []OrderItemInput {
	return c.items
}

// PaymentMethod returns the payment method chosen at checkout.
func (c CreateOrderCommand) PaymentMethod() string {
	return c.paymentMethod
}

// GatewayOrderID returns the gateway-assigned order identifier.
func (c CreateOrderCommand) GatewayOrderID() string {
	return c.gatewayOrderID
}

// Shipping returns the shipping charge in minor units.
func (c CreateOrderCommand) Shipping() int64 {
	return c.shipping
}

// Tax returns the tax amount in minor units.
func (c CreateOrderCommand) Tax() int64 {
	return c.tax
}

// Discount returns the discount in minor units.
func (c CreateOrderCommand) Discount() int64 {
	return c.discount
}

// Actor returns who placed the order.
func (c CreateOrderCommand) Actor() string {
	return c.actor
}

// DomainItems converts the submitted lines into domain items.
func (c CreateOrderCommand) DomainItems() ([]order.Item, error) {
	items := make([]order.Item, 0, len(c.items))
	for _, in := range c.items {
		price, err := kernel.NewMoney(in.UnitPrice)
		if err != nil {
			return nil, err
		}
		item, err := order.NewItem(in.ProductID, in.Quantity, price)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setZone(zone string) error {
	if zone == "" {
		return ErrZoneIsRequired
	}

	c.zone = zone
	return nil
}

func (c *CreateOrderCommand) setItems(items []OrderItemInput) error {
	if len(items) == 0 {
		return ErrItemsAreInvalid
	}
	for _, item := range items {
		if item.ProductID == "" || item.Quantity <= 0 || item.UnitPrice < 0 {
			return ErrItemsAreInvalid
		}
	}

	c.items = items
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(method string) error {
	if method == "" {
		return errs.NewValueIsRequiredError("payment method")
	}

	c.paymentMethod = method
	return nil
}

func (c *CreateOrderCommand) setGatewayOrderID(gatewayOrderID string) error {
	if gatewayOrderID == "" {
		return errs.NewValueIsRequiredError("gateway order id")
	}

	c.gatewayOrderID = gatewayOrderID
	return nil
}

func (c *CreateOrderCommand) setPricing(shipping, tax, discount int64) error {
	if shipping < 0 || tax < 0 || discount < 0 {
		return errs.NewValueIsInvalidError("pricing components")
	}

	c.shipping = shipping
	c.tax = tax
	c.discount = discount
	return nil
}

func (c *CreateOrderCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	c.actor = actor
	return nil
}

package http

import "time"

// OrderItemRequest is one order line in a placement request.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
	UnitPrice int64  `json:"unit_price" validate:"required,min=1"`
}

// CreateOrderRequest represents the data needed to place a new order.
// Monetary amounts are in minor currency units.
type CreateOrderRequest struct {
	Zone           string             `json:"zone" validate:"required"`
	Items          []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod  string             `json:"payment_method" validate:"required"`
	GatewayOrderID string             `json:"gateway_order_id" validate:"required"`
	ShippingFee    int64              `json:"shipping_fee" validate:"min=0"`
	Tax            int64              `json:"tax" validate:"min=0"`
	Discount       int64              `json:"discount" validate:"min=0"`
	Actor          string             `json:"actor" validate:"required"`
}

// CancelOrderRequest carries the cancellation reason and the acting party.
type CancelOrderRequest struct {
	Reason string `json:"reason" validate:"required"`
	Actor  string `json:"actor" validate:"required"`
}

// TransitionOrderRequest moves an order to a target status.
type TransitionOrderRequest struct {
	Target string `json:"target" validate:"required"`
	Actor  string `json:"actor" validate:"required"`
	Note   string `json:"note,omitempty"`
}

// AssignAgentRequest dispatches an order to a named delivery agent.
type AssignAgentRequest struct {
	OrderID     string     `json:"order_id" validate:"required,uuid"`
	AgentID     string     `json:"agent_id" validate:"required,uuid"`
	EstimatedAt *time.Time `json:"estimated_at,omitempty"`
	Actor       string     `json:"actor" validate:"required"`
}

// AutoAssignRequest triggers an automatic assignment run over the listed
// orders. Each id gets its own outcome in the response.
type AutoAssignRequest struct {
	OrderIDs []string `json:"order_ids" validate:"required,min=1,dive,uuid"`
}

// RecordAttemptRequest records the outcome of one delivery attempt.
type RecordAttemptRequest struct {
	OrderID       string     `json:"order_id" validate:"required,uuid"`
	AgentID       string     `json:"agent_id" validate:"required,uuid"`
	Status        string     `json:"status" validate:"required,oneof=successful failed rescheduled"`
	Reason        string     `json:"reason,omitempty"`
	NextAttemptAt *time.Time `json:"next_attempt_at,omitempty"`
}

// FailedDeliveryRequest reports a failed delivery attempt and asks the
// reschedule policy to resolve it.
type FailedDeliveryRequest struct {
	OrderID        string `json:"order_id" validate:"required,uuid"`
	Reason         string `json:"reason" validate:"required"`
	AutoReschedule bool   `json:"auto_reschedule"`
}

// UploadProofRequest attaches proof of delivery to a delivered order.
type UploadProofRequest struct {
	OrderID    string `json:"order_id" validate:"required,uuid"`
	ProofType  string `json:"proof_type" validate:"required,oneof=photo signature code"`
	Data       string `json:"data" validate:"required"`
	Location   string `json:"location,omitempty"`
	VerifiedBy string `json:"verified_by,omitempty"`
}

// PaymentWebhookRequest is the gateway notification body. The raw body is
// authenticated against the signature header before this structure is bound.
type PaymentWebhookRequest struct {
	EventID          string `json:"event_id" validate:"required"`
	EventType        string `json:"event_type" validate:"required"`
	GatewayOrderID   string `json:"gateway_order_id" validate:"required"`
	GatewayPaymentID string `json:"gateway_payment_id,omitempty"`
	Amount           int64  `json:"amount,omitempty"`
	FailureReason    string `json:"failure_reason,omitempty"`
}

// ErrorResponse is the uniform error body returned by every endpoint.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreateOrderResponse returns the id of the newly placed order.
type CreateOrderResponse struct {
	OrderID string `json:"order_id"`
}

// WebhookResponse acknowledges a webhook delivery.
type WebhookResponse struct {
	Applied   bool `json:"applied"`
	Duplicate bool `json:"duplicate"`
}

// FailedDeliveryResponse reports how a failed delivery was resolved.
type FailedDeliveryResponse struct {
	Rescheduled      bool       `json:"rescheduled"`
	NextAttemptAt    *time.Time `json:"next_attempt_at,omitempty"`
	ManualResolution bool       `json:"manual_resolution"`
}

// AutoAssignResponse maps each processed order id to its assignment outcome.
type AutoAssignResponse struct {
	Outcomes map[string]string `json:"outcomes"`
}

// PendingOrderResponse is one order awaiting agent assignment.
type PendingOrderResponse struct {
	ID       string    `json:"id"`
	Zone     string    `json:"zone"`
	Total    int64     `json:"total"`
	PlacedAt time.Time `json:"placed_at"`
}

// AvailableAgentResponse is one active agent with spare capacity.
type AvailableAgentResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Rating      float64 `json:"rating"`
	CurrentLoad int     `json:"current_load"`
	MaxOrders   int     `json:"max_orders"`
}

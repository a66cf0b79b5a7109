package cmd

import "time"

// Config carries everything the application needs from the environment.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// GatewayWebhookSecret is the shared secret the payment gateway signs
	// webhook deliveries with.
	GatewayWebhookSecret string

	// StockServiceURL is the base URL of the external stock system. Empty
	// disables reservations (local runs).
	StockServiceURL string

	// AmqpURL points at the RabbitMQ broker for audit events. Empty disables
	// audit publishing.
	AmqpURL       string
	AuditExchange string

	// PaymentReservationMaxAge is how long an order may sit awaiting payment
	// before the expiry sweep cancels it.
	PaymentReservationMaxAge time.Duration

	// AssignmentBatchLimit caps how many orders one auto-assignment run takes
	// off the queue.
	AssignmentBatchLimit int
}

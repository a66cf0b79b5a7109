// Package rabbitmq publishes fulfillment audit events to a RabbitMQ exchange.
// Publishing is best effort: the calling handlers log and continue when a
// publish fails, so a broker outage never blocks order processing.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"

	"fulfillment/internal/core/ports"
)

// AuditPublisher implements ports.AuditPublisher on top of a RabbitMQ topic
// exchange. Events are routed by their kind ("order.placed",
// "order.assigned", "webhook.applied", ...) so consumers can bind to the
// subset they care about.
type AuditPublisher struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	mu         sync.Mutex
}

// NewAuditPublisher connects to RabbitMQ and declares the audit exchange.
// ExchangeDeclare is idempotent and has no effect if the exchange is already
// in place.
func NewAuditPublisher(url, exchange string) (*AuditPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name of the exchange
		"topic",  // type of the exchange
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	notifyClose := make(chan *amqp.Error)
	conn.NotifyClose(notifyClose)
	go func() {
		for closeErr := range notifyClose {
			slog.Warn("RabbitMQ connection closed", "error", closeErr)
		}
	}()

	return &AuditPublisher{
		connection: conn,
		channel:    channel,
		exchange:   exchange,
	}, nil
}

// Publish sends one audit event to the exchange, routed by its kind.
func (p *AuditPublisher) Publish(_ context.Context, event ports.AuditEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.Publish(
		p.exchange, event.Kind, false, false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish audit event: %w", err)
	}

	return nil
}

// Close releases the channel and the connection.
func (p *AuditPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.Close(); err != nil {
		_ = p.connection.Close()
		return err
	}
	return p.connection.Close()
}

// NopAuditPublisher discards audit events. Used when no broker is configured.
type NopAuditPublisher struct{}

// Publish drops the event.
func (NopAuditPublisher) Publish(context.Context, ports.AuditEvent) error {
	return nil
}

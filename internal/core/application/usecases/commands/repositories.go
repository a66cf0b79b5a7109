// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// AgentRepoFactory provides access to the agent repository within a transaction.
	AgentRepoFactory interface {
		AgentRepository() ports.AgentRepository
	}

	// WebhookEventRepoFactory provides access to the webhook event ledger within a transaction.
	WebhookEventRepoFactory interface {
		WebhookEventRepository() ports.WebhookEventRepository
	}

	// OrderUoW manages transactions for order-only operations.
	// Used when commands only modify order aggregates.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// AssignmentUoW manages transactions spanning order and agent aggregates.
	// Used by assignment, attempt recording, and cancellation, which must
	// update both sides of the order-agent association atomically.
	AssignmentUoW interface {
		TxManager
		OrderRepoFactory
		AgentRepoFactory
	}

	// AssignmentUoWFactory creates new assignment unit of work instances.
	AssignmentUoWFactory interface {
		Create() AssignmentUoW
	}

	// WebhookUoW manages transactions for webhook ingestion: the event ledger
	// insert and the order mutation commit or roll back together, so a crash
	// between them can never record an event whose effects were lost.
	WebhookUoW interface {
		TxManager
		OrderRepoFactory
		WebhookEventRepoFactory
	}

	// WebhookUoWFactory creates new webhook unit of work instances.
	WebhookUoWFactory interface {
		Create() WebhookUoW
	}
)

// Package services provides domain services that orchestrate business
// operations across multiple aggregates in the fulfillment system. It
// implements workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - AgentSelector: A domain service for ranking agents and assigning orders
//
// Domain services coordinate between aggregates, implementing business logic
// that spans multiple bounded contexts following Domain-Driven Design
// principles.
package services

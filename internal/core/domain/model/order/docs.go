// Package order contains the Order aggregate: the retail order lifecycle from
// placement through payment confirmation, delivery-agent assignment, delivery
// attempts, and terminal resolution.
//
// The aggregate owns four closely related records:
//
//   - Status: the order lifecycle state machine with a fixed transition table
//   - Payment: the gateway payment sub-state (pending/completed/failed/refunded)
//   - Delivery: agent assignment, delivery attempts, and proof of delivery
//   - Pricing: subtotal/shipping/tax/discount/total, recomputed on every
//     pricing-relevant mutation so that total always equals
//     subtotal + shipping + tax - discount
//
// Every status change goes through the transition table and appends exactly one
// entry to the append-only timeline; no caller mutates status directly. The
// timeline is the audit trail of the order and is never truncated or rewritten.
//
// Orders must be created via NewOrder or reconstructed from persistence via
// RestoreOrder; zero-value Orders fail Validate.
package order

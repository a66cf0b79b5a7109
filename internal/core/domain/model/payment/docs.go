// Package payment contains the gateway webhook event entity and the
// signature verifier for authenticating webhook payloads.
//
// Every gateway notification is recorded as an Event keyed by the gateway's
// event id before its effects are applied, which is what makes webhook
// ingestion idempotent: a second delivery of the same event id is detected
// at the storage layer and acknowledged without reprocessing.
package payment

// Package jobs provides scheduled background tasks for the fulfillment system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle the periodic operations the pipeline needs.
//
// # Available Jobs
//
// 1. AutoAssignmentJob - Periodically assigns confirmed orders to available delivery agents
// 2. ReservationExpiryJob - Periodically cancels orders whose payment never arrived and releases their stock
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(autoAssignHandler, expiryHandler, settings, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The assignment job runs every fifteen seconds so confirmed orders do not
// sit in the queue between runs. The expiry sweep runs every five minutes;
// payment reservations live for hours, so a tighter schedule buys nothing.
//
// # Error Handling
//
// - The assignment job treats an empty queue as a normal outcome, not an error
// - The expiry sweep logs the number of cancelled orders per run
// - Failed job starts will stop any already running jobs
package jobs

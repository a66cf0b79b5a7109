package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	autoAssignmentJob    *AutoAssignmentJob
	reservationExpiryJob *ReservationExpiryJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	autoAssignHandler commands.AutoAssignOrdersCommandHandler,
	expiryHandler commands.ExpirePaymentReservationsCommandHandler,
	assignmentBatchLimit int,
	reservationMaxAge time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		autoAssignmentJob:    NewAutoAssignmentJob(autoAssignHandler, assignmentBatchLimit, logger),
		reservationExpiryJob: NewReservationExpiryJob(expiryHandler, reservationMaxAge, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.autoAssignmentJob.Start(); err != nil {
		return fmt.Errorf("failed to start auto assignment job: %w", err)
	}

	if err := jm.reservationExpiryJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.autoAssignmentJob.Stop()
		return fmt.Errorf("failed to start reservation expiry job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.reservationExpiryJob.Stop()
	jm.autoAssignmentJob.Stop()
}

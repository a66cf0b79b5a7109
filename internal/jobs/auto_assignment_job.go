package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// AutoAssignmentJob runs the automatic assignment engine on a schedule so
// confirmed orders are dispatched without operator involvement.
type AutoAssignmentJob struct {
	handler    commands.AutoAssignOrdersCommandHandler
	batchLimit int
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewAutoAssignmentJob creates a job that assigns up to batchLimit orders per run.
func NewAutoAssignmentJob(
	handler commands.AutoAssignOrdersCommandHandler,
	batchLimit int,
	logger *slog.Logger,
) *AutoAssignmentJob {
	return &AutoAssignmentJob{
		handler:    handler,
		batchLimit: batchLimit,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "auto_assignment_job"),
	}
}

// Start begins the assignment job, running every fifteen seconds.
func (j *AutoAssignmentJob) Start() error {
	_, err := j.cron.AddFunc("*/15 * * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewAutoAssignQueuedOrdersCommand(j.batchLimit)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Auto assignment job misconfigured", "error", cmdErr)
			return
		}

		result, handleErr := j.handler.Handle(ctx, cmd)
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Auto assignment job failed", "error", handleErr)
			return
		}

		if len(result.Outcomes) > 0 {
			j.logger.InfoContext(ctx, "Auto assignment run completed", "orders", len(result.Outcomes))
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Auto assignment job started (running every fifteen seconds)")
	return nil
}

// Stop stops the assignment job.
func (j *AutoAssignmentJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Auto assignment job stopped")
}

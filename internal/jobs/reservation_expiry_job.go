package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ReservationExpiryJob sweeps orders stuck awaiting payment. Orders older
// than the configured reservation age are cancelled and their stock released.
type ReservationExpiryJob struct {
	handler commands.ExpirePaymentReservationsCommandHandler
	maxAge  time.Duration
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewReservationExpiryJob creates a sweep job for the given reservation lifetime.
func NewReservationExpiryJob(
	handler commands.ExpirePaymentReservationsCommandHandler,
	maxAge time.Duration,
	logger *slog.Logger,
) *ReservationExpiryJob {
	return &ReservationExpiryJob{
		handler: handler,
		maxAge:  maxAge,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "reservation_expiry_job"),
	}
}

// Start begins the expiry sweep, running every five minutes.
func (j *ReservationExpiryJob) Start() error {
	_, err := j.cron.AddFunc("0 */5 * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewExpirePaymentReservationsCommand(j.maxAge)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Reservation expiry job misconfigured", "error", cmdErr)
			return
		}

		released, handleErr := j.handler.Handle(ctx, cmd)
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Reservation expiry sweep failed", "error", handleErr)
			return
		}

		if released > 0 {
			j.logger.InfoContext(ctx, "Released expired payment reservations", "reservations", released)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Reservation expiry job started (running every five minutes)")
	return nil
}

// Stop stops the expiry sweep.
func (j *ReservationExpiryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Reservation expiry job stopped")
}

package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/xraph/scurry/job"
)

// Logging returns middleware that logs job start and completion.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, h *job.Handle, next Handler) error {
		logger.Debug("job started",
			slog.String("job_id", h.ID().String()),
			slog.String("worker_id", h.Worker().String()),
			slog.Bool("stolen", h.Stolen()),
		)

		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.Error("job failed",
				slog.String("job_id", h.ID().String()),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Debug("job completed",
				slog.String("job_id", h.ID().String()),
				slog.Duration("elapsed", elapsed),
			)
		}

		return err
	}
}

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/xraph/scurry/job"
)

// Recover returns middleware that recovers from panics in the payload.
// Panics are converted to errors and logged with a stack trace. Without
// this middleware a panicking payload unwinds its worker goroutine, per
// the scheduler's default propagate-everything contract.
func Recover(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, h *job.Handle, next Handler) (retErr error) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logger.Error("job payload panicked",
					slog.String("job_id", h.ID().String()),
					slog.Any("panic", r),
					slog.String("stack", stack),
				)
				retErr = fmt.Errorf("panic in job %s: %v", h.ID(), r)
			}
		}()
		return next(ctx)
	}
}

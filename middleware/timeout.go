package middleware

import (
	"context"

	"github.com/xraph/scurry/job"
)

// Timeout returns middleware that enforces a per-job execution deadline.
// If the handle carries a non-zero timeout, a context.WithTimeout wraps
// the payload call. When the deadline is exceeded the context is
// cancelled; a cooperative payload should return context.DeadlineExceeded.
// The worker itself never preempts the payload.
func Timeout() Middleware {
	return func(ctx context.Context, h *job.Handle, next Handler) error {
		if d := h.Timeout(); d > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}
		return next(ctx)
	}
}

// Package middleware provides composable middleware for job execution.
// Middleware wraps the payload call synchronously and can modify
// execution (recover from panics, enforce deadlines, log, add tracing).
//
// The scheduler installs no middleware by default: a payload failure
// propagates to the handle untouched and a panic unwinds the worker.
// Applications that want fault isolation opt in with Recover.
package middleware

import (
	"context"

	"github.com/xraph/scurry/job"
)

// Handler is the terminal function that executes the job payload.
type Handler func(ctx context.Context) error

// Middleware wraps a Handler with cross-cutting logic.
// It receives the current context, the handle being executed, and the
// next handler to call. Middleware MUST call next to continue the chain
// (unless short-circuiting on error).
type Middleware func(ctx context.Context, h *job.Handle, next Handler) error

// Chain composes multiple middleware into a single Middleware.
// Middleware are applied right-to-left: the first middleware in the
// list is the outermost wrapper.
//
// Example: Chain(logging, recover, timeout) executes as:
//
//	logging → recover → timeout → payload
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, h *job.Handle, next Handler) error {
		// Build the chain from the end backwards.
		fn := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw := mws[i]
			prev := fn
			fn = func(ctx context.Context) error {
				return mw(ctx, h, prev)
			}
		}
		return fn(ctx)
	}
}

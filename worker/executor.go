package worker

import (
	"context"
	"log/slog"

	"github.com/xraph/scurry/ext"
	"github.com/xraph/scurry/job"
	"github.com/xraph/scurry/middleware"
)

// Finisher receives the completion callback a worker invokes after
// executing a job. The scheduler implements it; the implementation must
// be safe to call concurrently from every worker and must not reenter
// job execution synchronously.
type Finisher interface {
	Finish(h *job.Handle, err error)
}

// Executor runs a single claimed job through the middleware chain and
// the payload's Execute. It performs no retry, completion, or state
// handling of its own — the worker reports the returned error to the
// Finisher.
type Executor struct {
	extensions *ext.Registry
	mw         middleware.Middleware
	logger     *slog.Logger
}

// NewExecutor creates an Executor with the given middleware chain.
func NewExecutor(extensions *ext.Registry, logger *slog.Logger, mws ...middleware.Middleware) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		extensions: extensions,
		mw:         middleware.Chain(mws...),
		logger:     logger,
	}
}

// Execute emits JobStarted and runs the payload through the middleware
// chain. The returned error is the payload's (possibly wrapped by
// middleware); it is recorded, never retried.
func (e *Executor) Execute(ctx context.Context, h *job.Handle) error {
	e.extensions.EmitJobStarted(ctx, h)

	terminal := func(ctx context.Context) error {
		return h.Job().Execute(ctx)
	}
	return e.mw(ctx, h, terminal)
}

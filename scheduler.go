package scurry

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/xraph/scurry/backoff"
	"github.com/xraph/scurry/cron"
	"github.com/xraph/scurry/ext"
	"github.com/xraph/scurry/job"
	"github.com/xraph/scurry/middleware"
	"github.com/xraph/scurry/worker"
)

// Scheduler is the central coordinator: it owns the worker pool, the
// extension registry, the middleware chain, and the cron scheduler, and
// is the completion sink every worker reports into.
//
// Create one with New and functional options. Submit is safe from any
// goroutine, before or after Start; submitted work only executes while
// the scheduler is running.
type Scheduler struct {
	config  Config
	logger  *slog.Logger
	limiter *rate.Limiter

	extensions *ext.Registry
	pool       *worker.Pool
	crons      *cron.Scheduler

	// Option staging, consumed by New when wiring the pool.
	exts       []ext.Extension
	mws        []middleware.Middleware
	idle       backoff.Strategy
	lockThread bool
	pinCPUs    []int

	started atomic.Bool
	stopped atomic.Bool
}

// New creates a Scheduler with the given options. Workers exist and
// accept submissions immediately; their loops begin on Start.
func New(opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.extensions = ext.NewRegistry(s.logger)
	for _, e := range s.exts {
		s.extensions.Register(e)
	}

	executor := worker.NewExecutor(s.extensions, s.logger, s.mws...)

	poolOpts := []worker.PoolOption{
		worker.WithSize(s.config.Workers),
		worker.WithDequeCapacity(s.config.DequeCapacity),
		worker.WithDrainCap(s.config.DrainCap),
	}
	if s.idle != nil {
		poolOpts = append(poolOpts, worker.WithIdleStrategy(s.idle))
	}
	if s.lockThread {
		poolOpts = append(poolOpts, worker.WithLockOSThread())
	}
	if len(s.pinCPUs) > 0 {
		poolOpts = append(poolOpts, worker.WithPinCPUs(s.pinCPUs))
	}
	s.pool = worker.NewPool(s, executor, s.extensions, s.logger, poolOpts...)

	s.crons = cron.NewScheduler(s.Submit, s.extensions, s.logger,
		cron.WithTickInterval(s.config.CronTickInterval),
	)
	return s, nil
}

// Logger returns the scheduler's logger.
func (s *Scheduler) Logger() *slog.Logger { return s.logger }

// Config returns a copy of the scheduler's configuration.
func (s *Scheduler) Config() Config { return s.config }

// Workers returns the fixed number of workers.
func (s *Scheduler) Workers() int { return s.pool.Size() }

// Crons returns the cron scheduler for registering recurring jobs.
func (s *Scheduler) Crons() *cron.Scheduler { return s.crons }

// Submit hands a job to the scheduler and returns a handle the caller
// can wait on. The handle is placed on one worker's inbound queue in
// round-robin order; any worker may end up executing it.
func (s *Scheduler) Submit(ctx context.Context, j job.Job, opts ...job.Option) (*job.Handle, error) {
	if j == nil {
		return nil, ErrNilJob
	}
	if s.stopped.Load() {
		return nil, ErrSchedulerStopped
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	h := job.NewHandle(j, opts...)
	w := s.pool.Dispatch(h)
	s.extensions.EmitJobSubmitted(ctx, h)

	s.logger.Debug("job submitted",
		slog.String("job_id", h.ID().String()),
		slog.String("worker_id", w.ID().String()),
	)
	return h, nil
}

// SubmitFunc submits a plain function as a job.
func (s *Scheduler) SubmitFunc(ctx context.Context, fn func(ctx context.Context) error, opts ...job.Option) (*job.Handle, error) {
	if fn == nil {
		return nil, ErrNilJob
	}
	return s.Submit(ctx, job.Func(fn), opts...)
}

// SubmitTo submits a job to a specific worker's inbound queue. The
// placement is a hint, not an execution guarantee: an idle peer may
// still steal the job.
func (s *Scheduler) SubmitTo(ctx context.Context, index int, j job.Job, opts ...job.Option) (*job.Handle, error) {
	if j == nil {
		return nil, ErrNilJob
	}
	if index < 0 || index >= s.pool.Size() {
		return nil, ErrInvalidWorkerIndex
	}
	if s.stopped.Load() {
		return nil, ErrSchedulerStopped
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	h := job.NewHandle(j, opts...)
	s.pool.DispatchTo(index, h)
	s.extensions.EmitJobSubmitted(ctx, h)
	return h, nil
}

// Finish is the completion callback workers invoke after executing a
// job. It records the outcome on the handle and emits the terminal
// lifecycle event. Implements worker.Finisher.
func (s *Scheduler) Finish(h *job.Handle, err error) {
	elapsed := time.Since(h.StartedAt())
	if !h.Finish(err) {
		return
	}

	ctx := context.Background()
	if err != nil {
		s.extensions.EmitJobFailed(ctx, h, err)
		s.logger.Debug("job failed",
			slog.String("job_id", h.ID().String()),
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()),
		)
		return
	}

	s.extensions.EmitJobCompleted(ctx, h, elapsed)
}

// Start launches the worker loops and the cron scheduler. Calling Start
// on a running scheduler is a no-op; a stopped scheduler cannot be
// restarted.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.stopped.Load() {
		return ErrSchedulerStopped
	}
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	if err := s.pool.Start(ctx); err != nil {
		return err
	}
	if err := s.crons.Start(ctx); err != nil {
		return err
	}

	s.logger.Info("scheduler started",
		slog.Int("workers", s.pool.Size()),
	)
	return nil
}

// Stop rejects further submissions, halts the cron scheduler, and waits
// for worker loops to exit. In-flight jobs run to completion; queued
// work that no worker has claimed is abandoned. If ctx carries no
// deadline the configured ShutdownTimeout applies. Safe to call more
// than once.
func (s *Scheduler) Stop(ctx context.Context) error {
	if !s.stopped.CompareAndSwap(false, true) {
		return nil
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.crons.Stop(gctx) })
	g.Go(func() error { return s.pool.Stop(gctx) })
	err := g.Wait()

	s.extensions.EmitShutdown(ctx)
	s.logger.Info("scheduler stopped")
	return err
}

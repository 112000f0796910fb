package worker

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/xraph/scurry/backoff"
	"github.com/xraph/scurry/deque"
	"github.com/xraph/scurry/ext"
	"github.com/xraph/scurry/job"
)

// DefaultDrainCap bounds how many handles a worker moves from its
// inbound queue into its deque in one pass.
const DefaultDrainCap = 32

// Pool manages a fixed set of workers. The worker list is immutable
// after construction: it is the shared-by-construction peer list every
// worker scans when stealing.
type Pool struct {
	workers    []*Worker
	finisher   Finisher
	executor   *Executor
	extensions *ext.Registry
	logger     *slog.Logger

	dequeCapacity int
	drainCap      int
	idle          backoff.Strategy
	lockThread    bool
	pinCPUs       []int

	// next drives round-robin target selection for Dispatch.
	next atomic.Uint64

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithSize sets the number of workers. Defaults to GOMAXPROCS.
func WithSize(n int) PoolOption {
	return func(p *Pool) {
		if n > 0 {
			p.workers = make([]*Worker, n)
		}
	}
}

// WithDequeCapacity sets each worker's deque capacity (rounded up to a
// power of two).
func WithDequeCapacity(n int) PoolOption {
	return func(p *Pool) { p.dequeCapacity = n }
}

// WithDrainCap sets how many locally queued handles a worker may hold
// after one inbound drain pass; excess stays inbound for a later pass.
func WithDrainCap(n int) PoolOption {
	return func(p *Pool) {
		if n > 0 {
			p.drainCap = n
		}
	}
}

// WithIdleStrategy sets the bounded-wait strategy idle workers use.
func WithIdleStrategy(s backoff.Strategy) PoolOption {
	return func(p *Pool) {
		if s != nil {
			p.idle = s
		}
	}
}

// WithLockOSThread dedicates an OS thread to each worker goroutine.
func WithLockOSThread() PoolOption {
	return func(p *Pool) { p.lockThread = true }
}

// WithPinCPUs pins workers to the given CPUs round-robin. Implies
// WithLockOSThread; pinning is a no-op outside Linux.
func WithPinCPUs(cpus []int) PoolOption {
	return func(p *Pool) {
		p.pinCPUs = cpus
		p.lockThread = true
	}
}

// NewPool creates a pool of workers wired to the given executor and
// finisher. Workers exist (and accept Dispatch) immediately; their
// loops start on Start.
func NewPool(
	finisher Finisher,
	executor *Executor,
	extensions *ext.Registry,
	logger *slog.Logger,
	opts ...PoolOption,
) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pool{
		finisher:      finisher,
		executor:      executor,
		extensions:    extensions,
		logger:        logger,
		dequeCapacity: deque.DefaultCapacity,
		drainCap:      DefaultDrainCap,
		idle:          backoff.DefaultIdle(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.workers == nil {
		p.workers = make([]*Worker, runtime.GOMAXPROCS(0))
	}
	for i := range p.workers {
		p.workers[i] = newWorker(i, p)
	}
	return p
}

// Size returns the fixed number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Workers returns the immutable worker list.
func (p *Pool) Workers() []*Worker { return p.workers }

// Worker returns the worker at the given index.
func (p *Pool) Worker(i int) *Worker { return p.workers[i] }

// Dispatch enqueues a handle on the next worker's inbound queue in
// round-robin order and wakes it. Safe from any goroutine, before or
// after Start.
func (p *Pool) Dispatch(h *job.Handle) *Worker {
	w := p.workers[p.next.Add(1)%uint64(len(p.workers))]
	w.Enqueue(h)
	return w
}

// DispatchTo enqueues a handle on a specific worker (home-worker
// placement policies sit above the stealing protocol).
func (p *Pool) DispatchTo(index int, h *job.Handle) *Worker {
	w := p.workers[index%len(p.workers)]
	w.Enqueue(h)
	return w
}

// Start launches every worker's loop. It returns immediately; calling
// Start on a running pool is a no-op.
func (p *Pool) Start(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}
	p.running = true

	runCtx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	p.logger.Info("worker pool starting",
		slog.Int("workers", len(p.workers)),
		slog.Int("drain_cap", p.drainCap),
	)

	for _, w := range p.workers {
		p.wg.Add(1)
		go w.run(runCtx)
	}
	return nil
}

// Stop signals cancellation to every worker and waits for their loops
// to exit. Each worker observes the signal within one bounded idle wait
// plus at most one in-flight job execution. Remaining inbound and local
// work is abandoned, not drained. Safe to call more than once.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	cancel := p.cancel
	p.mu.Unlock()

	p.logger.Info("worker pool stopping")
	cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("worker pool stopped")
		return nil
	case <-ctx.Done():
		p.logger.Warn("worker pool shutdown timed out; a job may still be running")
		return ctx.Err()
	}
}

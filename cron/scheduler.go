package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	cronlib "github.com/robfig/cron/v3"

	"github.com/xraph/scurry/id"
	"github.com/xraph/scurry/job"
)

var (
	// ErrDuplicateEntry is returned when adding an entry whose name is
	// already registered.
	ErrDuplicateEntry = errors.New("cron: duplicate entry")
	// ErrEntryNotFound is returned when removing an unknown entry.
	ErrEntryNotFound = errors.New("cron: entry not found")
)

// SubmitFunc is the callback the scheduler uses to submit due jobs.
// This breaks the import cycle: the root package provides the
// implementation.
type SubmitFunc func(ctx context.Context, j job.Job, opts ...job.Option) (*job.Handle, error)

// Emitter emits cron lifecycle events.
// ext.Registry satisfies this interface via EmitCronFired.
type Emitter interface {
	EmitCronFired(ctx context.Context, entryName string, jobID id.JobID)
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithTickInterval sets how often the scheduler checks for due entries.
func WithTickInterval(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

// cronParser supports standard 5-field cron and descriptors like "@every 30s".
var cronParser = cronlib.NewParser(
	cronlib.Minute | cronlib.Hour | cronlib.Dom | cronlib.Month | cronlib.Dow | cronlib.Descriptor,
)

// ParseSchedule parses a cron expression and returns the schedule.
func ParseSchedule(expr string) (cronlib.Schedule, error) {
	return cronParser.Parse(expr)
}

// entry is a registered recurring submission.
type entry struct {
	id       id.CronID
	name     string
	spec     string
	job      job.Job
	schedule cronlib.Schedule
	next     time.Time
}

// Scheduler runs cron entries on a tick loop, submitting each due entry
// through the SubmitFunc.
type Scheduler struct {
	submit  SubmitFunc
	emitter Emitter
	logger  *slog.Logger

	tickInterval time.Duration

	mu      sync.Mutex
	entries map[string]*entry

	stopCh  chan struct{}
	wg      sync.WaitGroup
	running bool
}

// NewScheduler creates a Scheduler.
func NewScheduler(submit SubmitFunc, emitter Emitter, logger *slog.Logger, opts ...SchedulerOption) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		submit:       submit,
		emitter:      emitter,
		logger:       logger,
		tickInterval: time.Second,
		entries:      make(map[string]*entry),
		stopCh:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers a recurring entry. The first fire is the expression's
// next occurrence after now.
func (s *Scheduler) Add(name, spec string, j job.Job) (id.CronID, error) {
	schedule, err := ParseSchedule(spec)
	if err != nil {
		return id.Nil, fmt.Errorf("cron: parse %q: %w", spec, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[name]; exists {
		return id.Nil, fmt.Errorf("%w: %s", ErrDuplicateEntry, name)
	}

	e := &entry{
		id:       id.NewCronID(),
		name:     name,
		spec:     spec,
		job:      j,
		schedule: schedule,
		next:     schedule.Next(time.Now()),
	}
	s.entries[name] = e

	s.logger.Info("cron entry added",
		slog.String("entry", name),
		slog.String("spec", spec),
		slog.Time("next", e.next),
	)
	return e.id, nil
}

// Remove deletes an entry by name.
func (s *Scheduler) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[name]; !exists {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}
	delete(s.entries, name)
	return nil
}

// Len returns the number of registered entries.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Start launches the tick loop. Idempotent.
func (s *Scheduler) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	s.running = true

	s.wg.Add(1)
	go s.tickLoop()

	s.logger.Info("cron scheduler started",
		slog.Duration("tick_interval", s.tickInterval),
	)
	return nil
}

// Stop halts the tick loop and waits for it to exit. Safe to call more
// than once; already-submitted jobs are unaffected.
func (s *Scheduler) Stop(_ context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	return nil
}

func (s *Scheduler) tickLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case now := <-ticker.C:
			s.fireDue(now)
		}
	}
}

// fireDue submits every entry whose next fire time has passed and
// advances it. A failed submission is retried on the next tick rather
// than skipped to the following occurrence.
func (s *Scheduler) fireDue(now time.Time) {
	s.mu.Lock()
	var due []*entry
	for _, e := range s.entries {
		if !e.next.After(now) {
			due = append(due, e)
		}
	}
	s.mu.Unlock()

	for _, e := range due {
		h, err := s.submit(context.Background(), e.job)
		if err != nil {
			s.logger.Error("cron submission failed",
				slog.String("entry", e.name),
				slog.String("error", err.Error()),
			)
			continue
		}

		s.mu.Lock()
		e.next = e.schedule.Next(now)
		s.mu.Unlock()

		if s.emitter != nil {
			s.emitter.EmitCronFired(context.Background(), e.name, h.ID())
		}

		s.logger.Debug("cron entry fired",
			slog.String("entry", e.name),
			slog.String("job_id", h.ID().String()),
			slog.Time("next", e.next),
		)
	}
}

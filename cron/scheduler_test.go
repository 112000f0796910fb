package cron_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xraph/scurry/cron"
	"github.com/xraph/scurry/id"
	"github.com/xraph/scurry/job"
)

// directSubmit runs the job inline and returns a finished handle.
func directSubmit(ctx context.Context, j job.Job, opts ...job.Option) (*job.Handle, error) {
	h := job.NewHandle(j, opts...)
	h.Finish(j.Execute(ctx))
	return h, nil
}

type recordingEmitter struct {
	fired atomic.Int64
}

func (r *recordingEmitter) EmitCronFired(_ context.Context, _ string, _ id.JobID) {
	r.fired.Add(1)
}

func TestParseSchedule(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantErr bool
	}{
		{"five field", "*/5 * * * *", false},
		{"descriptor every", "@every 30s", false},
		{"descriptor hourly", "@hourly", false},
		{"garbage", "not a schedule", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cron.ParseSchedule(tt.expr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSchedule(%q) error = %v, wantErr %v", tt.expr, err, tt.wantErr)
			}
		})
	}
}

func TestAddRejectsInvalidSpec(t *testing.T) {
	s := cron.NewScheduler(directSubmit, nil, nil)

	if _, err := s.Add("bad", "invalid", job.Func(func(context.Context) error { return nil })); err == nil {
		t.Fatal("expected error for invalid spec")
	}
}

func TestAddRejectsDuplicateName(t *testing.T) {
	s := cron.NewScheduler(directSubmit, nil, nil)
	noop := job.Func(func(context.Context) error { return nil })

	if _, err := s.Add("daily", "@daily", noop); err != nil {
		t.Fatalf("first Add: %v", err)
	}
	if _, err := s.Add("daily", "@daily", noop); !errors.Is(err, cron.ErrDuplicateEntry) {
		t.Fatalf("second Add error = %v, want ErrDuplicateEntry", err)
	}
}

func TestRemove(t *testing.T) {
	s := cron.NewScheduler(directSubmit, nil, nil)

	if _, err := s.Add("daily", "@daily", job.Func(func(context.Context) error { return nil })); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Remove("daily"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("Len() = %d after remove, want 0", s.Len())
	}
	if err := s.Remove("daily"); !errors.Is(err, cron.ErrEntryNotFound) {
		t.Fatalf("Remove error = %v, want ErrEntryNotFound", err)
	}
}

func TestFiresDueEntries(t *testing.T) {
	var runs atomic.Int64
	emitter := &recordingEmitter{}

	s := cron.NewScheduler(directSubmit, emitter, nil, cron.WithTickInterval(10*time.Millisecond))
	if _, err := s.Add("fast", "@every 10ms", job.Func(func(context.Context) error {
		runs.Add(1)
		return nil
	})); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if got := runs.Load(); got < 3 {
		t.Fatalf("job ran %d times, want >= 3", got)
	}
	if got := emitter.fired.Load(); got < 3 {
		t.Fatalf("EmitCronFired called %d times, want >= 3", got)
	}
}

func TestStopHaltsTicking(t *testing.T) {
	var runs atomic.Int64

	s := cron.NewScheduler(directSubmit, nil, nil, cron.WithTickInterval(10*time.Millisecond))
	if _, err := s.Add("fast", "@every 10ms", job.Func(func(context.Context) error {
		runs.Add(1)
		return nil
	})); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	before := runs.Load()
	time.Sleep(50 * time.Millisecond)
	if after := runs.Load(); after != before {
		t.Fatalf("job ran %d more times after Stop", after-before)
	}

	// Second Stop is a no-op.
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}

package backoff_test

import (
	"testing"
	"time"

	"github.com/xraph/scurry/backoff"
)

func TestConstant_ReturnsFixedDelay(t *testing.T) {
	c := backoff.NewConstant(time.Millisecond)
	for attempt := 1; attempt <= 10; attempt++ {
		if got := c.Delay(attempt); got != time.Millisecond {
			t.Errorf("Delay(%d) = %v, want %v", attempt, got, time.Millisecond)
		}
	}
}

func TestLinear_GrowsLinearly(t *testing.T) {
	l := backoff.NewLinear(100*time.Microsecond, time.Millisecond)

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Microsecond},
		{2, 200 * time.Microsecond},
		{5, 500 * time.Microsecond},
		{10, time.Millisecond},
		{100, time.Millisecond}, // capped
	}

	for _, tt := range tests {
		if got := l.Delay(tt.attempt); got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestExponential_Doubles(t *testing.T) {
	e := backoff.NewExponential(50*time.Microsecond, time.Millisecond)

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 50 * time.Microsecond},
		{2, 100 * time.Microsecond},
		{3, 200 * time.Microsecond},
		{5, 800 * time.Microsecond},
		{6, time.Millisecond}, // capped
		{20, time.Millisecond},
	}

	for _, tt := range tests {
		if got := e.Delay(tt.attempt); got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestExponentialWithJitter_StaysInRange(t *testing.T) {
	e := backoff.NewExponentialWithJitter(50*time.Microsecond, time.Millisecond)

	for attempt := 1; attempt <= 20; attempt++ {
		for range 50 {
			got := e.Delay(attempt)
			if got <= 0 {
				t.Fatalf("Delay(%d) = %v, want > 0", attempt, got)
			}
			if got > time.Millisecond {
				t.Fatalf("Delay(%d) = %v, want <= cap", attempt, got)
			}
		}
	}
}

// The doubling product exceeds int64 within a few dozen attempts; the
// cap must be applied before the duration conversion or Delay goes
// negative and an idle worker degenerates into a zero-wait spin.
func TestExponential_CapsBeforeOverflow(t *testing.T) {
	e := backoff.NewExponential(50*time.Microsecond, time.Millisecond)

	for _, attempt := range []int{48, 49, 64, 100, 1 << 20} {
		if got := e.Delay(attempt); got != time.Millisecond {
			t.Errorf("Delay(%d) = %v, want %v", attempt, got, time.Millisecond)
		}
	}
}

func TestDefaultIdle_IsBounded(t *testing.T) {
	s := backoff.DefaultIdle()
	for attempt := 1; attempt <= 64; attempt++ {
		got := s.Delay(attempt)
		if got <= 0 || got > time.Millisecond {
			t.Errorf("Delay(%d) = %v, want in (0, 1ms]", attempt, got)
		}
	}
}

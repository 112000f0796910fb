package scurry

import "errors"

var (
	// Submission errors.
	ErrNilJob             = errors.New("scurry: nil job")
	ErrSchedulerStopped   = errors.New("scurry: scheduler stopped")
	ErrInvalidWorkerIndex = errors.New("scurry: invalid worker index")
)

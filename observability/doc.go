// Package observability provides an OpenTelemetry metrics extension
// for scurry. Install it to record submission, completion, failure,
// steal, and cron-fire counts plus queue latency:
//
//	sched, err := scurry.New(
//		scurry.WithExtension(observability.New()),
//	)
//
// Instruments are created against the global meter provider unless a
// specific meter is supplied with NewWithMeter.
package observability

package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/xraph/scurry/ext"
	"github.com/xraph/scurry/id"
	"github.com/xraph/scurry/job"
)

const meterName = "github.com/xraph/scurry/observability"

// MetricsExtension records scheduler lifecycle events as OpenTelemetry
// metrics.
type MetricsExtension struct {
	submitted    metric.Int64Counter
	completed    metric.Int64Counter
	failed       metric.Int64Counter
	stolen       metric.Int64Counter
	cronFired    metric.Int64Counter
	queueLatency metric.Float64Histogram
}

// Compile-time hook checks.
var (
	_ ext.Extension    = (*MetricsExtension)(nil)
	_ ext.JobSubmitted = (*MetricsExtension)(nil)
	_ ext.JobStarted   = (*MetricsExtension)(nil)
	_ ext.JobStolen    = (*MetricsExtension)(nil)
	_ ext.JobCompleted = (*MetricsExtension)(nil)
	_ ext.JobFailed    = (*MetricsExtension)(nil)
	_ ext.CronFired    = (*MetricsExtension)(nil)
)

// New creates a MetricsExtension on the global meter provider.
func New() *MetricsExtension {
	return NewWithMeter(otel.Meter(meterName))
}

// NewWithMeter creates a MetricsExtension with the given meter.
func NewWithMeter(meter metric.Meter) *MetricsExtension {
	submitted, _ := meter.Int64Counter("scurry.jobs.submitted",
		metric.WithDescription("Jobs accepted by the scheduler"),
	)
	completed, _ := meter.Int64Counter("scurry.jobs.completed",
		metric.WithDescription("Jobs that finished without error"),
	)
	failed, _ := meter.Int64Counter("scurry.jobs.failed",
		metric.WithDescription("Jobs whose payload returned an error"),
	)
	stolen, _ := meter.Int64Counter("scurry.jobs.stolen",
		metric.WithDescription("Jobs claimed from a peer worker's queue"),
	)
	cronFired, _ := meter.Int64Counter("scurry.cron.fired",
		metric.WithDescription("Cron entries that fired"),
	)
	queueLatency, _ := meter.Float64Histogram("scurry.job.queue_latency",
		metric.WithDescription("Time from submission to execution start"),
		metric.WithUnit("ms"),
	)

	return &MetricsExtension{
		submitted:    submitted,
		completed:    completed,
		failed:       failed,
		stolen:       stolen,
		cronFired:    cronFired,
		queueLatency: queueLatency,
	}
}

// Name implements ext.Extension.
func (m *MetricsExtension) Name() string { return "observability.metrics" }

// OnJobSubmitted implements ext.JobSubmitted.
func (m *MetricsExtension) OnJobSubmitted(ctx context.Context, _ *job.Handle) error {
	m.submitted.Add(ctx, 1)
	return nil
}

// OnJobStarted implements ext.JobStarted, recording how long the job
// waited in queues before a worker picked it up.
func (m *MetricsExtension) OnJobStarted(ctx context.Context, h *job.Handle) error {
	wait := h.StartedAt().Sub(h.SubmittedAt())
	m.queueLatency.Record(ctx, float64(wait)/float64(time.Millisecond),
		metric.WithAttributes(attribute.Bool("stolen", h.Stolen())),
	)
	return nil
}

// OnJobStolen implements ext.JobStolen.
func (m *MetricsExtension) OnJobStolen(ctx context.Context, _ *job.Handle, _ id.WorkerID) error {
	m.stolen.Add(ctx, 1)
	return nil
}

// OnJobCompleted implements ext.JobCompleted.
func (m *MetricsExtension) OnJobCompleted(ctx context.Context, h *job.Handle, _ time.Duration) error {
	m.completed.Add(ctx, 1,
		metric.WithAttributes(attribute.Bool("stolen", h.Stolen())),
	)
	return nil
}

// OnJobFailed implements ext.JobFailed.
func (m *MetricsExtension) OnJobFailed(ctx context.Context, h *job.Handle, _ error) error {
	m.failed.Add(ctx, 1,
		metric.WithAttributes(attribute.Bool("stolen", h.Stolen())),
	)
	return nil
}

// OnCronFired implements ext.CronFired.
func (m *MetricsExtension) OnCronFired(ctx context.Context, entryName string, _ id.JobID) error {
	m.cronFired.Add(ctx, 1,
		metric.WithAttributes(attribute.String("entry", entryName)),
	)
	return nil
}

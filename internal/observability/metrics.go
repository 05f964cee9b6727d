package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records evaluation metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEval records one evaluation and whether it matched.
	RecordEval(ctx context.Context, matched bool, duration time.Duration, err error)

	// RecordLookup records one environment lookup.
	RecordLookup(ctx context.Context, kind string, duration time.Duration, err error)
}

type otelMetrics struct {
	evals         metric.Int64Counter
	evalLatency   metric.Float64Histogram
	evalErrors    metric.Int64Counter
	lookups       metric.Int64Counter
	lookupLatency metric.Float64Histogram
	lookupErrors  metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("saltmatch")

	evals, err := meter.Int64Counter("saltmatch.evals",
		metric.WithDescription("Number of expression evaluations"),
	)
	if err != nil {
		return nil, err
	}

	evalLatency, err := meter.Float64Histogram("saltmatch.eval.latency_ms",
		metric.WithDescription("Evaluation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	evalErrors, err := meter.Int64Counter("saltmatch.eval.errors",
		metric.WithDescription("Number of failed evaluations"),
	)
	if err != nil {
		return nil, err
	}

	lookups, err := meter.Int64Counter("saltmatch.lookups",
		metric.WithDescription("Number of grain, pillar and module lookups"),
	)
	if err != nil {
		return nil, err
	}

	lookupLatency, err := meter.Float64Histogram("saltmatch.lookup.latency_ms",
		metric.WithDescription("Lookup latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	lookupErrors, err := meter.Int64Counter("saltmatch.lookup.errors",
		metric.WithDescription("Number of failed lookups"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		evals:         evals,
		evalLatency:   evalLatency,
		evalErrors:    evalErrors,
		lookups:       lookups,
		lookupLatency: lookupLatency,
		lookupErrors:  lookupErrors,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder on the global OTel meter
// provider, or a no-op recorder if the instruments cannot be created.
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func (m *otelMetrics) RecordEval(ctx context.Context, matched bool, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.Bool("matched", matched))
	m.evals.Add(ctx, 1, attrs)
	m.evalLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if err != nil {
		m.evalErrors.Add(ctx, 1)
	}
}

func (m *otelMetrics) RecordLookup(ctx context.Context, kind string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("kind", kind))
	m.lookups.Add(ctx, 1, attrs)
	m.lookupLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if err != nil {
		m.lookupErrors.Add(ctx, 1, attrs)
	}
}

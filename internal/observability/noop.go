package observability

import (
	"context"
	"time"
)

// NoopMetrics is a MetricsRecorder that does nothing.
type NoopMetrics struct{}

var _ MetricsRecorder = NoopMetrics{}

// RecordEval does nothing.
func (NoopMetrics) RecordEval(_ context.Context, _ bool, _ time.Duration, _ error) {}

// RecordLookup does nothing.
func (NoopMetrics) RecordLookup(_ context.Context, _ string, _ time.Duration, _ error) {}

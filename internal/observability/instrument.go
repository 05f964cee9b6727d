package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/ivoronin/saltmatch/internal/compound"
)

// Instrumented wraps an Environment so that every lookup gets a span, a
// metric sample and a debug log line. Lookup results and errors pass through
// unchanged.
type Instrumented struct {
	env     compound.Environment
	ctx     context.Context
	logger  *slog.Logger
	metrics MetricsRecorder
}

var _ compound.Environment = (*Instrumented)(nil)

// Instrument decorates env. Spans are children of the span in ctx. A nil
// logger disables logging and a nil recorder disables metrics.
func Instrument(ctx context.Context, env compound.Environment, logger *slog.Logger, metrics MetricsRecorder) *Instrumented {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &Instrumented{env: env, ctx: ctx, logger: logger, metrics: metrics}
}

func (i *Instrumented) Grain(key string) (compound.Value, error) {
	return i.observe(compound.RefGrain, key, func() (compound.Value, error) {
		return i.env.Grain(key)
	})
}

func (i *Instrumented) Pillar(key string) (compound.Value, error) {
	return i.observe(compound.RefPillar, key, func() (compound.Value, error) {
		return i.env.Pillar(key)
	})
}

func (i *Instrumented) CallModule(module, function string) (compound.Value, error) {
	return i.observe(compound.RefModule, module+"."+function, func() (compound.Value, error) {
		return i.env.CallModule(module, function)
	})
}

func (i *Instrumented) observe(kind compound.RefKind, key string, lookup func() (compound.Value, error)) (compound.Value, error) {
	ctx, span := StartLookupSpan(i.ctx, kind.String(), key)
	start := time.Now()

	v, err := lookup()

	i.metrics.RecordLookup(ctx, kind.String(), time.Since(start), err)
	LogLookup(i.logger, kind.String(), key, err)
	EndSpanWithError(span, err)
	return v, err
}

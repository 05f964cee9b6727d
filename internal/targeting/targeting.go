// Package targeting evaluates a compound expression against roster targets.
package targeting

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ivoronin/saltmatch/internal/compound"
	"github.com/ivoronin/saltmatch/internal/environment"
	"github.com/ivoronin/saltmatch/internal/observability"
	"github.com/ivoronin/saltmatch/internal/roster"
)

// Result is the outcome of one expression for one target.
type Result struct {
	Target  roster.Target
	Value   compound.Value
	Matched bool
	Err     error
}

type options struct {
	logger        *slog.Logger
	metrics       observability.MetricsRecorder
	moduleTimeout time.Duration
}

// Option configures MatchTargets.
type Option func(*options)

// WithLogger logs each evaluation and lookup to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics records evaluation and lookup metrics to m.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(o *options) { o.metrics = m }
}

// WithModuleTimeout bounds each module call. Zero means no limit.
func WithModuleTimeout(d time.Duration) Option {
	return func(o *options) { o.moduleTimeout = d }
}

// MatchTargets evaluates expression against every target in parallel.
// A malformed expression fails the whole call; lookup and type errors are
// recorded per target in Result.Err. Results keep the order of targets.
func MatchTargets(ctx context.Context, expression string, targets []roster.Target, opts ...Option) ([]Result, error) {
	cfg := options{metrics: observability.NoopMetrics{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	rules := compound.DefaultRules()
	if _, err := compound.NewParserWithRules(rules).Parse(expression); err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", expression, err)
	}

	if len(targets) == 0 {
		return nil, nil
	}

	// Each goroutine owns its Parser; the rule table is shared read-only.
	results := make([]Result, len(targets))
	var wg sync.WaitGroup

	for i, target := range targets {
		wg.Add(1)
		go func(idx int, t roster.Target) {
			defer wg.Done()
			results[idx] = matchTarget(ctx, &cfg, compound.NewParserWithRules(rules), expression, t)
		}(i, target)
	}

	wg.Wait()

	return results, nil
}

func matchTarget(ctx context.Context, cfg *options, p *compound.Parser, expression string, t roster.Target) Result {
	result := Result{Target: t}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	evalID := observability.NewEvalID()
	ctx, span := observability.StartEvalSpan(ctx, evalID, t.ID, expression)
	logger := observability.EnrichLogger(cfg.logger, evalID, t.ID)
	observability.LogEvalStart(logger, expression)
	start := time.Now()

	env := environment.WithTimeout(ctx, t.Environment(), cfg.moduleTimeout)
	env = observability.Instrument(ctx, env, logger, cfg.metrics)

	v, err := compound.EvalWith(p, expression, env)
	elapsed := time.Since(start)
	durationMs := float64(elapsed.Microseconds()) / 1000

	if err != nil {
		result.Err = err
		observability.LogEvalError(logger, err, durationMs)
	} else {
		result.Value = v
		result.Matched = v.Truthy()
		observability.LogEvalComplete(logger, v.String(), result.Matched, durationMs)
	}

	cfg.metrics.RecordEval(ctx, result.Matched, elapsed, err)
	observability.EndSpanWithError(span, err)
	return result
}

// Matched returns the results whose expression was truthy.
func Matched(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Matched {
			out = append(out, r)
		}
	}
	return out
}

// FirstError returns the first per-target error, or nil.
func FirstError(results []Result) error {
	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("target %s: %w", r.Target.ID, r.Err)
		}
	}
	return nil
}

// Package observability provides structured logging, metrics and tracing for
// expression evaluation.
//
// Logging uses slog. Metrics and tracing use the global OpenTelemetry
// providers and fall back to no-op implementations when disabled.
package observability

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// ParseLevel maps DEBUG, INFO, WARN and ERROR (case-insensitive) to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q (valid: DEBUG, INFO, WARN, ERROR)", level)
	}
}

// NewLogger returns a text logger writing to w. Source locations are added
// at debug level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewEvalID returns a fresh identifier for one evaluation.
func NewEvalID() string {
	return uuid.NewString()
}

// EnrichLogger returns a logger carrying eval_id and target fields.
func EnrichLogger(logger *slog.Logger, evalID, target string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("eval_id", evalID),
		slog.String("target", target),
	)
}

// LogEvalStart logs the start of an evaluation.
func LogEvalStart(logger *slog.Logger, expression string) {
	if logger == nil {
		return
	}
	logger.Debug("evaluation starting",
		slog.String("expression", expression),
	)
}

// LogEvalComplete logs a finished evaluation.
func LogEvalComplete(logger *slog.Logger, value string, matched bool, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("evaluation completed",
		slog.String("value", value),
		slog.Bool("matched", matched),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogEvalError logs a failed evaluation.
func LogEvalError(logger *slog.Logger, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Warn("evaluation failed",
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogLookup logs one environment lookup.
func LogLookup(logger *slog.Logger, kind, key string, err error) {
	if logger == nil {
		return
	}
	if err != nil {
		logger.Debug("lookup failed",
			slog.String("kind", kind),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return
	}
	logger.Debug("lookup resolved",
		slog.String("kind", kind),
		slog.String("key", key),
	)
}

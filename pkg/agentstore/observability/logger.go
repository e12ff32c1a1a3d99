// Package observability provides production-grade observability features
// for agentstore: structured logging, metrics, and distributed tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds store context to a logger.
// Returns a new logger with a backend field on every record.
//
// Example:
//
//	enriched := EnrichLogger(logger, "sqlite")
//	enriched.Info("schema ready") // includes backend=sqlite
func EnrichLogger(logger *slog.Logger, backend string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("backend", backend),
	)
}

// LogStoreOpen logs a successful backend connection.
func LogStoreOpen(logger *slog.Logger, backend, target string) {
	if logger == nil {
		return
	}
	logger.Info("store opened",
		slog.String("backend", backend),
		slog.String("target", target),
	)
}

// LogSchemaEnsured logs successful schema creation or verification.
func LogSchemaEnsured(logger *slog.Logger, backend string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("schema ensured",
		slog.String("backend", backend),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogCheckpointSaved logs checkpoint persistence.
func LogCheckpointSaved(logger *slog.Logger, backend, id, agentID string, sizeBytes int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("checkpoint saved",
		slog.String("backend", backend),
		slog.String("checkpoint_id", id),
		slog.String("agent_id", agentID),
		slog.Int("size_bytes", sizeBytes),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogCheckpointLoaded logs checkpoint retrieval.
func LogCheckpointLoaded(logger *slog.Logger, backend, id string, found bool, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("checkpoint loaded",
		slog.String("backend", backend),
		slog.String("checkpoint_id", id),
		slog.Bool("found", found),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogStoreError logs a failed store operation.
func LogStoreError(logger *slog.Logger, backend, op string, err error) {
	if logger == nil {
		return
	}
	logger.Error("store operation failed",
		slog.String("backend", backend),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}

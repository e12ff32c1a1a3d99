package agentstore

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/agentstore/pkg/agentstore/observability"
)

// Backend names reported in errors, logs, metrics, and spans.
const (
	backendMemory   = "memory"
	backendSQLite   = "sqlite"
	backendMySQL    = "mysql"
	backendPostgres = "postgres"
)

// Operation names reported in errors, logs, metrics, and spans.
const (
	opOpen         = "open"
	opEnsureSchema = "ensure_schema"
	opSave         = "save"
	opGet          = "get"
	opList         = "list"
)

// Store persists named checkpoints of agent state.
// Implementations must be safe for concurrent use. They rely on the
// backend's own single-statement atomicity rather than in-process locking,
// so two processes sharing one database behave the same as two goroutines.
type Store interface {
	// EnsureSchema creates the backing table and index if they do not
	// exist. Call it before the first read or write. Safe to call
	// repeatedly and concurrently; existing rows are never touched.
	EnsureSchema(ctx context.Context) error

	// SaveCheckpoint validates, serializes, and inserts a checkpoint,
	// returning the backend-assigned identifier for the new row.
	// Saving the same (agent, name) pair again inserts a second row
	// rather than overwriting the first.
	SaveCheckpoint(ctx context.Context, cp Checkpoint) (string, error)

	// GetCheckpoint loads a checkpoint by id. Returns ok=false with a
	// nil error when no such checkpoint exists, including when id is
	// not a well-formed identifier.
	GetCheckpoint(ctx context.Context, id string) (*StoredCheckpoint, bool, error)

	// ListCheckpoints returns metadata for every stored checkpoint,
	// newest first. Returns an empty list (not an error) for an empty
	// store. Payloads are never read or deserialized.
	ListCheckpoints(ctx context.Context) ([]CheckpointInfo, error)

	// Close releases any resources (connections, files).
	Close() error
}

// observer bundles the logger, metrics recorder, and span manager a
// store reports through. The zero-value recorders are no-ops.
type observer struct {
	backend string
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// Option configures observability for a store at construction.
type Option func(*observer)

// WithLogger attaches a structured logger. Store operations log at
// debug level, schema changes at info, failures at error.
//
// Example:
//
//	store, err := agentstore.NewSQLiteStore(path, agentstore.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(o *observer) {
		o.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics for store operations.
// Uses the global OTel meter provider.
func WithMetrics(enabled bool) Option {
	return func(o *observer) {
		if enabled {
			o.metrics = observability.NewMetricsRecorder()
		} else {
			o.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables OpenTelemetry spans for store operations.
// Uses the global OTel tracer provider.
func WithTracing(enabled bool) Option {
	return func(o *observer) {
		if enabled {
			o.spans = observability.NewSpanManager()
		} else {
			o.spans = observability.NoopSpanManager{}
		}
	}
}

// newObserver builds a backend's observer from construction options.
func newObserver(backend string, opts ...Option) observer {
	o := observer{
		backend: backend,
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// start opens a span and a timer for one store operation.
func (o observer) start(ctx context.Context, op string) (context.Context, trace.Span, func() float64) {
	ctx, span := o.spans.StartOpSpan(ctx, o.backend, op)
	return ctx, span, observability.TimedOperation()
}

// end records the operation's metrics, closes its span, and logs failures.
func (o observer) end(ctx context.Context, span trace.Span, op string, durationMs float64, err error) {
	duration := time.Duration(durationMs * float64(time.Millisecond))
	o.metrics.RecordOperation(ctx, o.backend, op, duration, err)
	o.spans.EndSpanWithError(span, err)
	if err != nil {
		observability.LogStoreError(o.logger, o.backend, op, err)
	}
}

// saved reports a successful save to the logger, metrics, and span.
func (o observer) saved(ctx context.Context, id, agentID string, sizeBytes int, durationMs float64) {
	o.metrics.RecordCheckpointSize(ctx, o.backend, int64(sizeBytes))
	o.spans.AddSpanEvent(ctx, "checkpoint.stored",
		attribute.String("checkpoint.id", id),
		attribute.Int("checkpoint.size_bytes", sizeBytes),
	)
	observability.LogCheckpointSaved(o.logger, o.backend, id, agentID, sizeBytes, durationMs)
}

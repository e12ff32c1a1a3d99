package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures log records for testing.
type testHandler struct {
	buf    *bytes.Buffer
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func newTestHandler() *testHandler {
	return &testHandler{
		buf:   &bytes.Buffer{},
		level: slog.LevelDebug,
	}
}

func (h *testHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	// Build a map from the record
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}

	// Add pre-configured attrs
	for _, attr := range h.attrs {
		data[attr.Key] = attr.Value.Any()
	}

	// Add record attrs
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})

	// Encode as JSON
	enc := json.NewEncoder(h.buf)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return nil
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := &testHandler{
		buf:    h.buf,
		level:  h.level,
		attrs:  make([]slog.Attr, len(h.attrs)+len(attrs)),
		groups: h.groups,
	}
	copy(newH.attrs, h.attrs)
	copy(newH.attrs[len(h.attrs):], attrs)
	return newH
}

func (h *testHandler) WithGroup(name string) slog.Handler {
	newH := &testHandler{
		buf:    h.buf,
		level:  h.level,
		attrs:  h.attrs,
		groups: append(h.groups, name),
	}
	return newH
}

func (h *testHandler) getLastRecord() map[string]any {
	lines := bytes.Split(h.buf.Bytes(), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if len(lines[i]) > 0 {
			var m map[string]any
			if err := json.Unmarshal(lines[i], &m); err == nil {
				return m
			}
		}
	}
	return nil
}

func (h *testHandler) getAllRecords() []map[string]any {
	var records []map[string]any
	lines := bytes.Split(h.buf.Bytes(), []byte("\n"))
	for _, line := range lines {
		if len(line) > 0 {
			var m map[string]any
			if err := json.Unmarshal(line, &m); err == nil {
				records = append(records, m)
			}
		}
	}
	return records
}

func TestEnrichLogger(t *testing.T) {
	t.Run("adds backend to every record", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		enriched := EnrichLogger(logger, "sqlite")
		enriched.Info("test message")

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "sqlite", record["backend"])
		assert.Equal(t, "test message", record["msg"])
	})

	t.Run("nil logger returns nil", func(t *testing.T) {
		enriched := EnrichLogger(nil, "sqlite")
		assert.Nil(t, enriched)
	})

	t.Run("empty backend is included", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		enriched := EnrichLogger(logger, "")
		enriched.Info("test")

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "", record["backend"])
	})
}

func TestLogStoreOpen(t *testing.T) {
	t.Run("logs backend and target at INFO level", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		LogStoreOpen(logger, "postgres", "db.internal:5432/agents")

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "INFO", record["level"])
		assert.Equal(t, "store opened", record["msg"])
		assert.Equal(t, "postgres", record["backend"])
		assert.Equal(t, "db.internal:5432/agents", record["target"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogStoreOpen(nil, "sqlite", "cp.db")
		})
	})
}

func TestLogSchemaEnsured(t *testing.T) {
	t.Run("logs schema creation with duration", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		LogSchemaEnsured(logger, "mysql", 12.5)

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "INFO", record["level"])
		assert.Equal(t, "schema ensured", record["msg"])
		assert.Equal(t, "mysql", record["backend"])
		assert.Equal(t, 12.5, record["duration_ms"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogSchemaEnsured(nil, "sqlite", 1.0)
		})
	})
}

func TestLogCheckpointSaved(t *testing.T) {
	t.Run("logs at DEBUG level with full context", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		LogCheckpointSaved(logger, "sqlite", "42", "agent-7", 2048, 3.2)

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "DEBUG", record["level"])
		assert.Equal(t, "checkpoint saved", record["msg"])
		assert.Equal(t, "sqlite", record["backend"])
		assert.Equal(t, "42", record["checkpoint_id"])
		assert.Equal(t, "agent-7", record["agent_id"])
		assert.Equal(t, float64(2048), record["size_bytes"]) // JSON decodes ints as float64
		assert.Equal(t, 3.2, record["duration_ms"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogCheckpointSaved(nil, "sqlite", "1", "agent", 100, 1.0)
		})
	})
}

func TestLogCheckpointLoaded(t *testing.T) {
	t.Run("logs found and not-found lookups", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		LogCheckpointLoaded(logger, "postgres", "7", true, 1.5)
		LogCheckpointLoaded(logger, "postgres", "999", false, 0.8)

		records := h.getAllRecords()
		require.Len(t, records, 2)

		assert.Equal(t, "DEBUG", records[0]["level"])
		assert.Equal(t, "checkpoint loaded", records[0]["msg"])
		assert.Equal(t, "7", records[0]["checkpoint_id"])
		assert.Equal(t, true, records[0]["found"])

		assert.Equal(t, "999", records[1]["checkpoint_id"])
		assert.Equal(t, false, records[1]["found"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogCheckpointLoaded(nil, "sqlite", "1", true, 1.0)
		})
	})
}

func TestLogStoreError(t *testing.T) {
	t.Run("logs at ERROR level", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)
		testErr := errors.New("connection refused")

		LogStoreError(logger, "mysql", "save", testErr)

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "ERROR", record["level"])
		assert.Equal(t, "store operation failed", record["msg"])
		assert.Equal(t, "mysql", record["backend"])
		assert.Equal(t, "save", record["operation"])
		assert.Equal(t, "connection refused", record["error"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogStoreError(nil, "sqlite", "get", errors.New("err"))
		})
	})
}

func TestTimedOperation(t *testing.T) {
	t.Run("measures duration", func(t *testing.T) {
		done := TimedOperation()
		time.Sleep(10 * time.Millisecond)
		duration := done()

		// Should be at least 10ms
		assert.GreaterOrEqual(t, duration, 10.0)
		// Should be less than 100ms (reasonable upper bound)
		assert.Less(t, duration, 100.0)
	})

	t.Run("returns zero for immediate call", func(t *testing.T) {
		done := TimedOperation()
		duration := done()

		// Should be very small (less than 1ms)
		assert.Less(t, duration, 1.0)
	})

	t.Run("can be called multiple times", func(t *testing.T) {
		done := TimedOperation()
		time.Sleep(5 * time.Millisecond)
		d1 := done()
		time.Sleep(5 * time.Millisecond)
		d2 := done()

		// Second call should have larger duration
		assert.Greater(t, d2, d1)
	})
}

package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LogConfig{Level: "debug", Format: "json", Output: &buf, Service: "test"})

	log.WithComponent("retriever").WithSession("s1").Info().Str("extra", "x").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test", entry["service"])
	assert.Equal(t, "retriever", entry["component"])
	assert.Equal(t, "s1", entry["session_id"])
	assert.Equal(t, "x", entry["extra"])
	assert.Equal(t, "hello", entry["message"])
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LogConfig{Level: "warn", Format: "json", Output: &buf})

	log.Debug().Msg("dropped")
	assert.Empty(t, buf.String())

	log.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestTraceIDContext(t *testing.T) {
	ctx := ContextWithTraceID(context.Background(), "trace-42")
	assert.Equal(t, "trace-42", TraceIDFromContext(ctx))
	assert.Empty(t, TraceIDFromContext(context.Background()))

	var buf bytes.Buffer
	log := NewLogger(LogConfig{Level: "info", Format: "json", Output: &buf})
	log.WithContext(ctx).Info().Msg("traced")
	assert.Contains(t, buf.String(), "trace-42")
}

func TestNopLogger(t *testing.T) {
	// must not panic or write anywhere
	NopLogger().Error().Msg("discarded")
}

package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("SERVICE_VERSION", "1.2.3")
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "TEXT")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.25")

	opts := OptionsFromEnv("shop-api")
	assert.Equal(t, "shop-api", opts.ServiceName)
	assert.Equal(t, "1.2.3", opts.ServiceVersion)
	assert.Equal(t, "staging", opts.Environment)
	assert.Equal(t, slog.LevelWarn, opts.LogLevel)
	assert.Equal(t, "text", opts.LogFormat)
	assert.Equal(t, "collector:4318", opts.OTLPEndpoint)
	assert.False(t, opts.OTLPInsecure)
	assert.InDelta(t, 0.25, opts.SampleRatio, 1e-9)
}

func TestOptionsFromEnv_FallsBackOnGarbage(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "2")

	opts := OptionsFromEnv("shop-worker")
	assert.Equal(t, slog.LevelInfo, opts.LogLevel)
	assert.Equal(t, 1.0, opts.SampleRatio)
}

func TestNewLogger_TagsServiceAndFiltersLevel(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	logger := NewLogger(Options{ServiceName: "shop-api", LogLevel: slog.LevelWarn, LogFormat: "json", LogOutput: &buf})
	logger.Info("dropped")
	logger.Warn("kept", slog.Int64("order.id", 7))

	var record map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record))
	assert.Equal(t, "kept", record["msg"])
	assert.Equal(t, "shop-api", record["service"])
	assert.EqualValues(t, 7, record["order.id"])
}

func TestInstruments_NilSafe(t *testing.T) {
	var instruments *Instruments
	assert.NotNil(t, instruments.Tracer("x"))
	assert.NotNil(t, instruments.Meter("x"))
}

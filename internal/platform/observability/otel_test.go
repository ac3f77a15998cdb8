package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn := NewLogger(&buf, "")
	logger.Info("hello", "order.id", 7)
	require.NoError(t, closeFn())

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, float64(7), line["order.id"])
	assert.Contains(t, line, "source")
}

func TestNewLogger_TeesIntoRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	var buf bytes.Buffer
	logger, closeFn := NewLogger(&buf, path)
	logger.Warn("storage degraded")
	require.NoError(t, closeFn())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "storage degraded")
	assert.Equal(t, buf.String(), string(raw))
}

func TestInstruments_NilFallsBackToNoop(t *testing.T) {
	var inst *Instruments
	assert.NotNil(t, inst.Meter("m"))
	assert.NotNil(t, inst.Tracer("t"))
}

func TestSampler(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{ratio: 0, want: "AlwaysOnSampler"},
		{ratio: 1, want: "AlwaysOnSampler"},
		{ratio: 0.25, want: "TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		assert.Contains(t, sampler(tt.ratio).Description(), tt.want)
	}
}

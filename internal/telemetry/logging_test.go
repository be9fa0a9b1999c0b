package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{" Error ", slog.LevelError},
		{"info+2", slog.LevelInfo + 2},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			level, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, level)
		})
	}

	level, err := ParseLevel("verbose")
	assert.Error(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogOptions{Level: slog.LevelInfo, Service: "actuator-api", Output: &buf})

	ForAction(logger, "api", "notify-crm", "inst-1").Info("action failed", "password", "s3cret", "status", 502)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "actuator-api", entry["service"])
	assert.Equal(t, "api", entry["action_kind"])
	assert.Equal(t, "notify-crm", entry["action_id"])
	assert.Equal(t, "inst-1", entry["instance_id"])
	assert.Equal(t, "[REDACTED]", entry["password"])
	assert.Equal(t, float64(502), entry["status"])
}

func TestNewLogger_TextAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogOptions{Level: slog.LevelWarn, Format: "TEXT", Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown", "token", "abc")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "token=[REDACTED]")
	assert.NotContains(t, out, "service=")
}

func TestForAction_SkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogOptions{Output: &buf})

	ForAction(logger, "unknown", "", "").Info("x")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "unknown", entry["action_kind"])
	assert.NotContains(t, entry, "action_id")
	assert.NotContains(t, entry, "instance_id")
}

func TestFromContext(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))

	logger := NewLogger(LogOptions{Output: &bytes.Buffer{}})
	assert.Same(t, logger, FromContext(WithLogger(context.Background(), logger)))
}

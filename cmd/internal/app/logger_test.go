package app

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: " warning ", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "unknown", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, parseLogLevel(tc.in), "parseLogLevel(%q)", tc.in)
	}
}

func TestNewLogger_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := newLogger(&buf, "warn", "json", false)

	log.Info("dropped")
	log.Warn("user.register.fail", "user_id", "01J")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "user.register.fail", rec["msg"])
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "01J", rec["user_id"])
	assert.Contains(t, rec, "source")
}

func TestNewLogger_Pretty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := newLogger(&buf, "debug", "Pretty", false)
	log.Debug("server.start", "addr", "0.0.0.0:8080")

	out := buf.String()
	assert.Contains(t, out, "[DEBUG]")
	assert.Contains(t, out, "server.start")
	assert.Contains(t, out, "addr=0.0.0.0:8080")
}

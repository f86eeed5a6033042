package app

import (
	"bytes"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRe.ReplaceAllString(s, "") }

func TestPrettyHandler_RequestLine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}, true))

	log.Warn("http.request",
		"method", "post",
		"path", "/api/users/login",
		"status", 401,
		"duration_ms", int64(12),
		"remote", "10.0.0.1:5555",
		"user_agent", "curl/8 test",
	)

	raw := buf.String()
	assert.Contains(t, raw, ansiYellow+"401"+ansiReset)

	line := stripANSI(raw)
	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.Contains(t, line, "[WARN] http.request")
	assert.Contains(t, line, "method=POST")
	assert.Contains(t, line, "path=/api/users/login")
	assert.Contains(t, line, "status=401")
	assert.Contains(t, line, "duration_ms=12ms")
	assert.Contains(t, line, `user_agent="curl/8 test"`)
}

func TestPrettyHandler_LevelFilterAndNoColor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}, false))

	log.Info("hidden")
	log.Error("store.fail", "err", "boom")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[ERROR] store.fail err=boom")
	assert.Equal(t, out, stripANSI(out))
}

func TestPrettyHandler_GroupsAndAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, nil, false)).
		With("service", "registration").
		WithGroup("req")

	log.Info("user.register.ok", slog.Group("user", slog.String("id", "01J")), "empty", "")

	out := buf.String()
	assert.Contains(t, out, "service=registration")
	assert.Contains(t, out, "req.user.id=01J")
	assert.Contains(t, out, `req.empty=""`)
}

package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := defaultLogger
	defaultLogger = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level}))
	t.Cleanup(func() { defaultLogger = prev })
	return &buf
}

func TestInitializeLevelParsing(t *testing.T) {
	Initialize("debug", "json")
	assert.True(t, Get().Enabled(context.Background(), slog.LevelDebug))

	Initialize("warn", "text")
	assert.False(t, Get().Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, Get().Enabled(context.Background(), slog.LevelWarn))

	Initialize("nonsense", "text")
	assert.True(t, Get().Enabled(context.Background(), slog.LevelInfo))
}

func TestWithServiceAttachesServiceAttr(t *testing.T) {
	buf := capture(t, slog.LevelInfo)

	WithService("scheduler").Info("tick")

	assert.Contains(t, buf.String(), `"service":"scheduler"`)
	assert.Contains(t, buf.String(), `"msg":"tick"`)
}

func TestCallHelpersEmitDebugRecords(t *testing.T) {
	buf := capture(t, slog.LevelDebug)

	DatabaseCall("users.list", "SELECT 1", "org_id", 10)
	ExternalServiceCall("sendgrid", "send", "to", "pat@test.com")

	out := buf.String()
	assert.Contains(t, out, `"operation":"users.list"`)
	assert.Contains(t, out, `"query":"SELECT 1"`)
	assert.Contains(t, out, `"service":"sendgrid"`)
	assert.Contains(t, out, `"operation":"send"`)
}

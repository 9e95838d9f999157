package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel(" WARNING "))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("bogus"))
}

func TestCLIHandler_Output(t *testing.T) {
	var buf bytes.Buffer
	h := NewCLIHandler(&buf, slog.LevelInfo)
	logger := slog.New(h)

	logger.Info("carrier scored", "usdot", "1234567", "score", 92)

	out := buf.String()
	assert.Contains(t, out, "carrier scored")
	assert.Contains(t, out, "usdot=1234567")
	assert.Contains(t, out, "score=92")
}

func TestCLIHandler_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	h := NewCLIHandler(&buf, slog.LevelWarn)

	require.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	require.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	require.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestCLIHandler_GroupPrefix(t *testing.T) {
	var buf bytes.Buffer
	h := NewCLIHandler(&buf, slog.LevelInfo)
	logger := slog.New(h).WithGroup("fetch")

	logger.Warn("slow upstream")
	assert.Contains(t, buf.String(), "[fetch] slow upstream")
}

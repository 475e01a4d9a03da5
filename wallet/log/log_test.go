//go:build unit

package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"ERROR", LevelError},
	}

	for _, tc := range cases {
		level, err := ParseLevel(tc.input)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, level)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "debug", LevelDebug.String())
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "warn", LevelWarn.String())
	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "unknown", Level(42).String())
}

func TestNopLoggerIsSilent(t *testing.T) {
	logger := NewNop()

	logger.Log(context.Background(), LevelError, "dropped", String("key", "value"))

	assert.False(t, logger.Enabled(LevelError))
	require.NoError(t, logger.Sync(context.Background()))
}

func TestZapLoggerEmitsFields(t *testing.T) {
	core, observed := observer.New(zap.DebugLevel)
	logger := NewZapFrom(zap.New(core))

	logger.Log(context.Background(), LevelInfo, "transfer enqueued",
		String("recipient", "alice"),
		Int("attempts", 0),
		Bool("available", true),
	)

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "transfer enqueued", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "alice", fields["recipient"])
	assert.Equal(t, int64(0), fields["attempts"])
	assert.Equal(t, true, fields["available"])
}

func TestZapLoggerWith(t *testing.T) {
	core, observed := observer.New(zap.DebugLevel)
	logger := NewZapFrom(zap.New(core)).With(String("component", "processor"))

	logger.Log(context.Background(), LevelWarn, "submission retried")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "processor", entries[0].ContextMap()["component"])
}

func TestZapLoggerEnabled(t *testing.T) {
	core, _ := observer.New(zap.WarnLevel)
	logger := NewZapFrom(zap.New(core))

	assert.True(t, logger.Enabled(LevelError))
	assert.True(t, logger.Enabled(LevelWarn))
	assert.False(t, logger.Enabled(LevelInfo))
	assert.False(t, logger.Enabled(LevelDebug))
}

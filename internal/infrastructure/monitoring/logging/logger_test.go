package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewLoggerFromCore(core), logs
}

func TestLogger_EmitsTypedFields(t *testing.T) {
	log, logs := newObservedLogger(zapcore.DebugLevel)

	log.Info("task submitted",
		String("workflow", "survival"),
		Int("organizations", 2),
		Bool("master", true),
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "task submitted", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "survival", fields["workflow"])
	assert.Equal(t, int64(2), fields["organizations"])
	assert.Equal(t, true, fields["master"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	log, logs := newObservedLogger(zapcore.WarnLevel)

	log.Debug("dropped")
	log.Info("dropped too")
	log.Warn("kept")

	require.Len(t, logs.All(), 1)
	assert.Equal(t, "kept", logs.All()[0].Message)
}

func TestLogger_WithAttachesFields(t *testing.T) {
	log, logs := newObservedLogger(zapcore.InfoLevel)

	child := log.With(String("workflow", "similarity"))
	child.Info("polling")

	require.Len(t, logs.All(), 1)
	assert.Equal(t, "similarity", logs.All()[0].ContextMap()["workflow"])
}

func TestLogger_Named(t *testing.T) {
	log, logs := newObservedLogger(zapcore.InfoLevel)

	log.Named("vantage").Info("authenticated")

	require.Len(t, logs.All(), 1)
	assert.Equal(t, "vantage", logs.All()[0].LoggerName)
}

func TestErrField_NilSafe(t *testing.T) {
	f := Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestNewLogger_DefaultsApplied(t *testing.T) {
	log, err := NewLogger(LogConfig{})
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestDefaultLogger_SetAndGet(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	log, _ := newObservedLogger(zapcore.InfoLevel)
	SetDefault(log)
	assert.Equal(t, log, Default())

	// nil is ignored.
	SetDefault(nil)
	assert.Equal(t, log, Default())
}

//Personal.AI order the ending

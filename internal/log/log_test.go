package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLoggerRoutesHelpers(t *testing.T) {
	prev := Logger()
	defer SetLogger(prev)

	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))

	Debug("debug message")
	Warn("warn message", zap.String("column", "revenue"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "debug message", entries[0].Message)
	assert.Equal(t, "revenue", entries[1].ContextMap()["column"])
}

func TestSetLoggerNilInstallsNop(t *testing.T) {
	prev := Logger()
	defer SetLogger(prev)

	SetLogger(nil)
	require.NotNil(t, Logger())
	Info("dropped") // must not panic
}

func TestNew(t *testing.T) {
	l, err := New("debug", "json")
	require.NoError(t, err)
	assert.NotNil(t, l)

	_, err = New("loud", "text")
	assert.Error(t, err)

	_, err = New("info", "xml")
	assert.Error(t, err)
}

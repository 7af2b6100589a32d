package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWritesConsoleAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swapkit.log")
	var console bytes.Buffer

	l, err := newWithConsole(&Config{LogFile: path, MaxSize: 1, MaxBackups: 1, MaxAge: 1}, &console)
	require.NoError(t, err)

	l.Info("quote computed", zap.String("mint", "abc"))
	l.Debug("hidden at info level")
	_ = l.Sync()

	assert.Contains(t, console.String(), "quote computed")
	assert.NotContains(t, console.String(), "hidden at info level")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"mint":"abc"`)
}

func TestDevelopmentEnablesDebug(t *testing.T) {
	var console bytes.Buffer
	l, err := newWithConsole(&Config{Development: true}, &console)
	require.NoError(t, err)

	l.Debug("debug line")
	assert.Contains(t, console.String(), "debug line")
}

func TestOperationAddsCorrelationID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	Operation(base, "quote").Info("first")
	Operation(base, "quote").Info("second")

	entries := logs.All()
	require.Len(t, entries, 2)
	first := entries[0].ContextMap()
	second := entries[1].ContextMap()
	assert.Equal(t, "quote", first["operation"])
	assert.NotEmpty(t, first["correlation_id"])
	assert.NotEqual(t, first["correlation_id"], second["correlation_id"])
}

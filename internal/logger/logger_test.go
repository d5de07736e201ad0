package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want LogLevel
	}{
		{"debug", LogDebug},
		{" DEBUG ", LogDebug},
		{"info", LogInfo},
		{"warn", LogWarning},
		{"warning", LogWarning},
		{"error", LogError},
		{"", LogInfo},
		{"verbose", LogInfo},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.raw))
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, LogWarning)

	l.Debug("debug %d", 1)
	l.Info("info %d", 2)
	l.Warning("warning %d", 3)
	l.Error("error %d", 4)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{"[WARN] warning 3", "[ERROR] error 4"}, lines)
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, LogError)

	l.Info("hidden")
	l.SetLevel(LogDebug)
	l.Debug("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[INFO] Log level changed to DEBUG")
	assert.Contains(t, out, "[DEBUG] shown")
}

func TestNilAndDiscard(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() { l.Error("nothing") })
	assert.NotPanics(t, func() { Discard().Error("nothing") })
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mediabias.log")
	l, err := New(path, LogInfo)
	require.NoError(t, err)

	l.Info("written to %s", "file")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] Logger initialized")
	assert.Contains(t, string(data), "[INFO] written to file")
}

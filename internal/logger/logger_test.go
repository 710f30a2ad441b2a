package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jmehdipour/iovox-sms/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "debug",
		"INFO":    "info",
		" warn ":  "warn",
		"error":   "error",
		"":        "info",
		"verbose": "info",
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in).String(), "input %q", in)
	}
}

func TestNewWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sms_sender.log")

	l, err := New(config.LogConfig{Level: "error", File: path})
	require.NoError(t, err)

	// debug goes to the file even though the console is at error.
	l.Debug("API SENT", zap.String("direction", "sent"))
	_ = l.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "API SENT")
	assert.Contains(t, string(b), `"direction":"sent"`)
}

func TestNewWithoutFile(t *testing.T) {
	l, err := New(config.LogConfig{Level: "info", Encoding: "json"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

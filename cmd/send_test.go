package cmd

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmehdipour/iovox-sms/internal/iovox"
	"github.com/jmehdipour/iovox-sms/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: error
  file: ""
api:
  base_url: "`+baseURL+`"
  username: cfg-user
  secure_key: cfg-key
`), 0o600))
	return path
}

func runSend(t *testing.T, args ...string) (string, error) {
	t.Helper()
	sendFields = model.Fields{}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"send"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSendCommandSuccess(t *testing.T) {
	var gotUser, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotKey = r.Header.Get("username"), r.Header.Get("secureKey")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`<response><sms_activity_id>12345</sms_activity_id></response>`))
	}))
	defer srv.Close()

	out, err := runSend(t, "--config", writeConfig(t, srv.URL),
		"--origin", "IOVOX", "--destination", "447700900123", "-m", "hello")

	require.NoError(t, err)
	assert.Contains(t, out, "SMS sent successfully! ID: 12345")
	assert.Equal(t, "cfg-user", gotUser)
	assert.Equal(t, "cfg-key", gotKey)
}

func TestSendCommandAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<response><error>Invalid destination</error></response>`))
	}))
	defer srv.Close()

	_, err := runSend(t, "--config", writeConfig(t, srv.URL),
		"--origin", "IOVOX", "--destination", "nope", "-m", "hello")

	var apiErr *iovox.APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, "Invalid destination", apiErr.Message)
}

func TestSendCommandTooLongNeverCallsAPI(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	_, err := runSend(t, "--config", writeConfig(t, srv.URL),
		"--origin", "IOVOX", "--destination", "447700900123", "-m", strings.Repeat("x", model.MaxMessageLength+1))

	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.False(t, called)
}

func TestSendCommandMissingConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	_, err := runSend(t, "--config", path, "--origin", "IOVOX", "--destination", "447700900123", "-m", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestResolveConfigPath(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	assert.Equal(t, "", resolveConfigPath(defaultConfigPath, false))
	assert.Equal(t, defaultConfigPath, resolveConfigPath(defaultConfigPath, true))
	assert.Equal(t, "other.yaml", resolveConfigPath("other.yaml", false))

	require.NoError(t, os.WriteFile(defaultConfigPath, []byte("log:\n  level: warn\n"), 0o600))
	assert.Equal(t, defaultConfigPath, resolveConfigPath(defaultConfigPath, false))
}

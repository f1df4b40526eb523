package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/phil-crm/phil-console/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend implements just enough of the backend to drive the commands.
type fakeBackend struct {
	lock    sync.Mutex
	status  map[string]string
	patches int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{status: map[string]string{"l-1": "pending", "l-2": "active"}}
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.lock.Lock()
	defer b.lock.Unlock()
	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path != "/api/auth/login/" && r.URL.Path != "/api/auth/logout/" && r.Header.Get("Authorization") != "Bearer access-1" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "Given token not valid for any token type"}`))
		return
	}
	switch {
	case r.URL.Path == "/api/auth/login/":
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail": "No active account found with the given credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access": "access-1", "refresh": "refresh-1", "access_expires": 3600, "user": {"id": 7, "username": "ann", "first_name": "Ann", "last_name": "Lee"}}`))
	case r.URL.Path == "/api/auth/logout/":
		w.WriteHeader(http.StatusNoContent)
	case r.URL.Path == "/api/auth/me/":
		_, _ = w.Write([]byte(`{"id": 7, "username": "ann", "email": "ann@example.com", "first_name": "Ann", "last_name": "Lee"}`))
	case r.URL.Path == "/api/links/":
		links := []map[string]string{}
		for _, id := range []string{"l-1", "l-2"} {
			if wanted := r.URL.Query().Get("status"); wanted != "" && wanted != b.status[id] {
				continue
			}
			links = append(links, map[string]string{"id": id, "url": "https://reddit.com/" + id, "platform": "reddit", "status": b.status[id]})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"count": len(links), "results": links})
	case r.URL.Path == "/api/links/l-1/" && r.Method == http.MethodPatch:
		b.patches++
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status": ["Transition not allowed."]}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func testConfig(t *testing.T, backendURL string) config.Config {
	baseURL, err := url.Parse(backendURL)
	require.NoError(t, err)
	consoleURL, err := url.Parse("http://console.example")
	require.NoError(t, err)
	return config.Config{
		RunningEnvironment: config.Development,
		API: config.APIConfig{
			BaseURL:        baseURL,
			RequestTimeout: config.DefaultRequestTimeout,
			ListTimeout:    config.DefaultListTimeout,
		},
		Sessions: config.SessionConfig{
			Backend:         config.SessionBackendFile,
			Key:             config.DefaultSessionKey,
			FilePath:        filepath.Join(t.TempDir(), "session.yaml"),
			CookieName:      config.DefaultSessionKey,
			ConsoleURL:      consoleURL,
			RefreshLeadTime: config.DefaultRefreshLeadTime,
			RefreshInterval: config.DefaultRefreshInterval,
			MaxLifetime:     config.DefaultMaxLifetime,
		},
	}
}

// run executes one command the way a fresh process would.
func run(t *testing.T, cfg config.Config, args ...string) (string, string, error) {
	c := newCLI(func() (config.Config, error) { return cfg, nil })
	root := c.root()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSessionSurvivesBetweenCommands(t *testing.T) {
	server := httptest.NewServer(newFakeBackend())
	defer server.Close()
	cfg := testConfig(t, server.URL)

	out, _, err := run(t, cfg, "login", "-u", "ann", "-p", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "logged in as Ann Lee")

	out, _, err = run(t, cfg, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "ann@example.com")

	out, _, err = run(t, cfg, "links", "list", "--status", "active")
	require.NoError(t, err)
	assert.Contains(t, out, "l-2")
	assert.NotContains(t, out, "l-1")

	out, _, err = run(t, cfg, "token", "--cookie")
	require.NoError(t, err)
	assert.Equal(t, "phil_auth=access-1\n", out)

	_, _, err = run(t, cfg, "logout")
	require.NoError(t, err)
	_, _, err = run(t, cfg, "whoami")
	assert.EqualError(t, err, "not logged in")
}

func TestLoginPasswordFromEnvironment(t *testing.T) {
	server := httptest.NewServer(newFakeBackend())
	defer server.Close()
	cfg := testConfig(t, server.URL)

	t.Setenv(passwordEnv, "wrong")
	_, _, err := run(t, cfg, "login", "-u", "ann")
	assert.EqualError(t, err, "No active account found with the given credentials")

	t.Setenv(passwordEnv, "secret")
	_, _, err = run(t, cfg, "login", "-u", "ann")
	assert.NoError(t, err)
}

func TestRejectedMoveShowsServerState(t *testing.T) {
	backend := newFakeBackend()
	server := httptest.NewServer(backend)
	defer server.Close()
	cfg := testConfig(t, server.URL)
	_, _, err := run(t, cfg, "login", "-u", "ann", "-p", "secret")
	require.NoError(t, err)

	_, stderr, err := run(t, cfg, "links", "move", "l-1", "removed")

	assert.EqualError(t, err, "status: Transition not allowed.")
	assert.Contains(t, stderr, "link l-1 is pending")
	assert.Equal(t, 1, backend.patches)
}

func TestMoveUnknownLink(t *testing.T) {
	server := httptest.NewServer(newFakeBackend())
	defer server.Close()
	cfg := testConfig(t, server.URL)
	_, _, err := run(t, cfg, "login", "-u", "ann", "-p", "secret")
	require.NoError(t, err)

	_, _, err = run(t, cfg, "links", "move", "l-9", "removed")

	assert.ErrorIs(t, err, errLinkNotListed)
}

func TestInvalidConfiguration(t *testing.T) {
	cfg := testConfig(t, "http://localhost:8000")
	cfg.Sessions.Backend = "sqlite"

	_, _, err := run(t, cfg, "whoami")

	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "the config validation failed"))
}

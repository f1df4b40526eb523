package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/phil-crm/phil-console/internal/config"
	"github.com/phil-crm/phil-console/internal/gwerrors"
	"github.com/phil-crm/phil-console/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")
	adapter, err := NewFileAdapter(WithFilePath(path))
	require.NoError(t, err)
	session := getTestSession()

	_, err = adapter.GetSession(ctx, "phil_auth")
	assert.ErrorIs(t, err, gwerrors.ErrSessionNotFound)

	require.NoError(t, adapter.SetSession(ctx, "phil_auth", session))
	stored, err := adapter.GetSession(ctx, "phil_auth")
	require.NoError(t, err)
	assert.True(t, session.ExpiresAt.Equal(stored.ExpiresAt))
	stored.ExpiresAt = session.ExpiresAt
	assert.Empty(t, cmp.Diff(session, stored))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileSessionSurvivesNewAdapter(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.yaml")
	first, err := NewFileAdapter(WithFilePath(path), WithFileEncryption("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	require.NoError(t, first.SetSession(ctx, "phil_auth", getTestSession()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "access-token-value")

	second, err := NewFileAdapter(WithFilePath(path), WithFileEncryption("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	stored, err := second.GetSession(ctx, "phil_auth")
	require.NoError(t, err)
	assert.Equal(t, "access-token-value", stored.AccessToken)
	assert.Equal(t, "refresh-token-value", stored.RefreshToken)
}

func TestFileSessionRemove(t *testing.T) {
	ctx := context.Background()
	adapter, err := NewFileAdapter(WithFilePath(filepath.Join(t.TempDir(), "session.yaml")))
	require.NoError(t, err)
	require.NoError(t, adapter.SetSession(ctx, "phil_auth", getTestSession()))
	require.NoError(t, adapter.SetSession(ctx, "other", getTestSession()))

	require.NoError(t, adapter.RemoveSession(ctx, "phil_auth"))
	require.NoError(t, adapter.RemoveSession(ctx, "phil_auth"))

	_, err = adapter.GetSession(ctx, "phil_auth")
	assert.ErrorIs(t, err, gwerrors.ErrSessionNotFound)
	_, err = adapter.GetSession(ctx, "other")
	assert.NoError(t, err)
}

func TestFileSessionCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sessions: [not, a, map"), 0600))
	adapter, err := NewFileAdapter(WithFilePath(path))
	require.NoError(t, err)

	_, err = adapter.GetSession(context.Background(), "phil_auth")

	assert.Error(t, err)
}

func TestMemorySessionRepository(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()
	_ = models.SessionRepository(adapter)

	require.NoError(t, adapter.SetSession(ctx, "phil_auth", getTestSession()))
	stored, err := adapter.GetSession(ctx, "phil_auth")
	require.NoError(t, err)
	assert.Equal(t, getTestSession(), stored)

	require.NoError(t, adapter.RemoveSession(ctx, "phil_auth"))
	_, err = adapter.GetSession(ctx, "phil_auth")
	assert.ErrorIs(t, err, gwerrors.ErrSessionNotFound)
}

func TestNewSessionRepository(t *testing.T) {
	sessions := config.SessionConfig{Backend: config.SessionBackendMemory, MaxLifetime: config.DefaultMaxLifetime}
	repo, err := NewSessionRepository(sessions, config.RedisConfig{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryAdapter{}, repo)

	sessions.Backend = config.SessionBackendFile
	sessions.FilePath = filepath.Join(t.TempDir(), "session.yaml")
	repo, err = NewSessionRepository(sessions, config.RedisConfig{})
	require.NoError(t, err)
	assert.IsType(t, &FileAdapter{}, repo)

	sessions.Backend = config.SessionBackendRedis
	repo, err = NewSessionRepository(sessions, config.RedisConfig{Type: config.DBTypeRedisMock})
	require.NoError(t, err)
	assert.IsType(t, &RedisAdapter{}, repo)

	sessions.Backend = "sqlite"
	_, err = NewSessionRepository(sessions, config.RedisConfig{})
	assert.Error(t, err)
}

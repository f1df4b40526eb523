package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/phil-crm/phil-console/internal/config"
	"github.com/phil-crm/phil-console/internal/gwerrors"
	"github.com/phil-crm/phil-console/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Check that RedisAdapter implements SessionRepository.
// This test would fail to compile otherwise.
func TestRedisAdapterIsSessionRepository(t *testing.T) {
	rdb := RedisAdapter{}
	_ = models.SessionRepository(rdb)
}

func getTestSession() models.Session {
	return models.Session{
		ID:           "01HQ8Z4M6N7P8Q9R0S1T2V3W4X",
		AccessToken:  "access-token-value",
		RefreshToken: "refresh-token-value",
		ExpiresAt:    time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
	}
}

func TestRedisSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	adapter, err := NewRedisAdapter(WithRedisConfig(config.RedisConfig{Type: config.DBTypeRedisMock}))
	require.NoError(t, err)
	session := getTestSession()

	err = adapter.SetSession(ctx, "phil_auth", session)
	require.NoError(t, err)
	stored, err := adapter.GetSession(ctx, "phil_auth")

	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(session, stored))
}

func TestRedisSessionNotFound(t *testing.T) {
	adapter, err := NewRedisAdapter(WithRedisClient(NewMockRedisClient()))
	require.NoError(t, err)

	_, err = adapter.GetSession(context.Background(), "missing")

	assert.ErrorIs(t, err, gwerrors.ErrSessionNotFound)
}

func TestRedisSessionRemove(t *testing.T) {
	ctx := context.Background()
	adapter, err := NewRedisAdapter(WithRedisClient(NewMockRedisClient()))
	require.NoError(t, err)
	require.NoError(t, adapter.SetSession(ctx, "phil_auth", getTestSession()))

	require.NoError(t, adapter.RemoveSession(ctx, "phil_auth"))
	require.NoError(t, adapter.RemoveSession(ctx, "phil_auth"))

	_, err = adapter.GetSession(ctx, "phil_auth")
	assert.ErrorIs(t, err, gwerrors.ErrSessionNotFound)
}

func TestRedisSessionEncrypted(t *testing.T) {
	ctx := context.Background()
	client := NewMockRedisClient()
	adapter, err := NewRedisAdapter(WithRedisClient(client), WithEncryption("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	session := getTestSession()

	require.NoError(t, adapter.SetSession(ctx, "phil_auth", session))

	raw := client.HGetAll(ctx, "session:phil_auth").Val()
	assert.NotEqual(t, session.AccessToken, raw["AccessToken"])
	assert.NotEqual(t, session.RefreshToken, raw["RefreshToken"])
	assert.Equal(t, session.ID, raw["ID"])
	stored, err := adapter.GetSession(ctx, "phil_auth")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(session, stored))
}

func TestRedisSessionExpiresAfterMaxLifetime(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	client := NewMockRedisClient()
	client.now = func() time.Time { return now }
	adapter, err := NewRedisAdapter(WithRedisClient(client), WithMaxLifetime(time.Hour))
	require.NoError(t, err)
	adapter.now = func() time.Time { return now }
	require.NoError(t, adapter.SetSession(ctx, "phil_auth", getTestSession()))

	now = now.Add(59 * time.Minute)
	_, err = adapter.GetSession(ctx, "phil_auth")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = adapter.GetSession(ctx, "phil_auth")
	assert.ErrorIs(t, err, gwerrors.ErrSessionNotFound)
}

func TestNewRedisAdapterRequiresClient(t *testing.T) {
	_, err := NewRedisAdapter()
	assert.Error(t, err)

	_, err = NewRedisAdapter(WithRedisConfig(config.RedisConfig{Type: "memcached"}))
	assert.Error(t, err)

	_, err = NewRedisAdapter(WithRedisClient(NewMockRedisClient()), WithMaxLifetime(0))
	assert.Error(t, err)
}

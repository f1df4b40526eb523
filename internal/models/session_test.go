package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionValid(t *testing.T) {
	expiry := time.Now().Add(time.Hour)
	assert.True(t, Session{AccessToken: "a", RefreshToken: "r", ExpiresAt: expiry}.Valid())
	assert.False(t, Session{AccessToken: "a", ExpiresAt: expiry}.Valid())
	assert.False(t, Session{RefreshToken: "r", ExpiresAt: expiry}.Valid())
	assert.False(t, Session{AccessToken: "a", RefreshToken: "r"}.Valid())
}

func TestSessionRefreshDue(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	lead := 5 * time.Minute
	tests := []struct {
		name      string
		expiresAt time.Time
		due       bool
	}{
		{"far from expiry", now.Add(time.Hour), false},
		{"just outside the lead", now.Add(lead + time.Second), false},
		{"exactly at the lead", now.Add(lead), true},
		{"inside the lead", now.Add(time.Minute), true},
		{"already expired", now.Add(-time.Minute), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := Session{AccessToken: "a", RefreshToken: "r", ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.due, session.RefreshDue(now, lead))
		})
	}
}

func TestSessionStringRedactsTokens(t *testing.T) {
	session := Session{ID: "s1", AccessToken: "secret-access", RefreshToken: "secret-refresh", ExpiresAt: time.Now()}

	printed := session.String()

	assert.NotContains(t, printed, "secret-access")
	assert.NotContains(t, printed, "secret-refresh")
	assert.Contains(t, printed, "<redacted-13-chars>")
	assert.Equal(t, printed, session.LogValue().String())
}

func TestSessionOAuth2Token(t *testing.T) {
	expiry := time.Now().Add(time.Hour)
	token := Session{AccessToken: "a", RefreshToken: "r", ExpiresAt: expiry}.OAuth2Token()

	assert.Equal(t, "a", token.AccessToken)
	assert.Equal(t, "Bearer", token.Type())
	assert.True(t, token.Valid())
}

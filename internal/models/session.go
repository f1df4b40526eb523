package models

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
)

// Session is the credential triple the console keeps between requests. The three token fields are
// only meaningful together: a session missing any of them is treated as absent.
type Session struct {
	ID           string    `yaml:"id"`
	AccessToken  string    `yaml:"access_token"`
	RefreshToken string    `yaml:"refresh_token"`
	ExpiresAt    time.Time `yaml:"expires_at"`
}

func (s Session) Valid() bool {
	return s.AccessToken != "" && s.RefreshToken != "" && !s.ExpiresAt.IsZero()
}

// Expired reports whether the access token is past its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// RefreshDue is true once now reaches the expiry minus the lead time.
func (s Session) RefreshDue(now time.Time, lead time.Duration) bool {
	return !now.Before(s.ExpiresAt.Add(-lead))
}

func (s Session) OAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       s.ExpiresAt,
	}
}

func (s Session) String() string {
	return fmt.Sprintf(
		"Session{ID: %s, AccessToken: <redacted-%d-chars>, RefreshToken: <redacted-%d-chars>, ExpiresAt: %s}",
		s.ID,
		len(s.AccessToken),
		len(s.RefreshToken),
		s.ExpiresAt.Format(time.RFC3339),
	)
}

// LogValue keeps the tokens out of structured logs, the JSON handler does not use String.
func (s Session) LogValue() slog.Value {
	return slog.StringValue(s.String())
}

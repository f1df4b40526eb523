package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/phil-crm/phil-console/internal/models"
)

const defaultTokenLifetime = time.Hour

// tokenResponse covers both spellings the backend uses for the token fields.
type tokenResponse struct {
	Access        string            `json:"access"`
	AccessToken   string            `json:"access_token"`
	Refresh       string            `json:"refresh"`
	RefreshToken  string            `json:"refresh_token"`
	AccessExpires float64           `json:"access_expires"`
	User          *models.User      `json:"user"`
	UserID        models.FlexString `json:"user_id"`
	Username      models.FlexString `json:"username"`
	Email         models.FlexString `json:"email"`
}

func (t tokenResponse) access() string {
	if t.Access != "" {
		return t.Access
	}
	return t.AccessToken
}

func (t tokenResponse) refresh() string {
	if t.Refresh != "" {
		return t.Refresh
	}
	return t.RefreshToken
}

// user falls back to the flat user fields and finally to the login name.
func (t tokenResponse) user(creds Credentials) models.User {
	if t.User != nil {
		return *t.User
	}
	user := models.User{
		ID:       string(t.UserID),
		Username: string(t.Username),
		Email:    string(t.Email),
	}
	if user.ID == "" {
		user.ID = "0"
	}
	if user.Username == "" {
		user.Username = creds.Username
	}
	if user.Email == "" {
		user.Email = creds.Username
	}
	return user
}

// expiry prefers the lifetime announced by the server, then the exp claim of the access token.
func (t tokenResponse) expiry(now time.Time) time.Time {
	if t.AccessExpires > 0 {
		return now.Add(time.Duration(t.AccessExpires * float64(time.Second)))
	}
	return tokenExpiry(t.access(), now)
}

// tokenExpiry reads the exp claim without verifying the signature, only the backend can do that.
func tokenExpiry(accessToken string, now time.Time) time.Time {
	claims := jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims)
	if err != nil || claims.ExpiresAt == nil {
		return now.Add(defaultTokenLifetime)
	}
	return claims.ExpiresAt.Time
}

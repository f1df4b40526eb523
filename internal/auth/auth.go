// Package auth implements the login, logout, refresh and current user calls of the backend.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phil-crm/phil-console/internal/gateway"
	"github.com/phil-crm/phil-console/internal/gwerrors"
	"github.com/phil-crm/phil-console/internal/models"
)

const (
	loginPath   = "/api/auth/login/"
	logoutPath  = "/api/auth/logout/"
	refreshPath = "/api/auth/refresh/"
	mePath      = "/api/auth/me/"
)

// Doer sends one logical request, see gateway.Gateway.Do.
type Doer interface {
	Do(ctx context.Context, target string, opts gateway.RequestOptions, out any) error
}

type SessionStore interface {
	Get(ctx context.Context) (models.Session, bool)
	Set(ctx context.Context, accessToken, refreshToken string, expiresAt time.Time) error
	Clear(ctx context.Context) error
	AccessToken(ctx context.Context) string
	Now() time.Time
}

type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// State is the outcome of restoring a stored session on startup.
type State struct {
	Authenticated bool
	// User is nil when the session is kept but the profile could not be loaded
	User *models.User
}

type Service struct {
	gateway      Doer
	sessionStore SessionStore
}

type ServiceOption func(*Service) error

func WithGateway(g Doer) ServiceOption {
	return func(s *Service) error {
		s.gateway = g
		return nil
	}
}

func WithSessionStore(store SessionStore) ServiceOption {
	return func(s *Service) error {
		s.sessionStore = store
		return nil
	}
}

func NewService(options ...ServiceOption) (*Service, error) {
	s := Service{}
	for _, opt := range options {
		err := opt(&s)
		if err != nil {
			return &Service{}, err
		}
	}
	if s.gateway == nil {
		return &Service{}, fmt.Errorf("gateway is not initialized")
	}
	if s.sessionStore == nil {
		return &Service{}, fmt.Errorf("session store is not initialized")
	}
	return &s, nil
}

// Login exchanges the credentials for a token pair and commits it as the current session.
func (s *Service) Login(ctx context.Context, creds Credentials) (models.User, models.Session, error) {
	if err := models.Validate(creds); err != nil {
		return models.User{}, models.Session{}, gwerrors.NewAPIError(gwerrors.KindInvalidCredentials, 0, err.Error(), err)
	}
	var tokens tokenResponse
	err := s.gateway.Do(ctx, loginPath, gateway.RequestOptions{Method: http.MethodPost, Body: creds, SkipAuth: true}, &tokens)
	if err != nil {
		return models.User{}, models.Session{}, loginError(err)
	}
	access, refresh := tokens.access(), tokens.refresh()
	if access == "" || refresh == "" {
		return models.User{}, models.Session{}, gwerrors.NewAPIError(gwerrors.KindNetwork, 0, "server did not return tokens", nil)
	}
	err = s.sessionStore.Set(ctx, access, refresh, tokens.expiry(s.sessionStore.Now()))
	if err != nil {
		return models.User{}, models.Session{}, err
	}
	session, found := s.sessionStore.Get(ctx)
	if !found {
		return models.User{}, models.Session{}, gwerrors.ErrSessionNotFound
	}
	user := tokens.user(creds)
	slog.Info("AUTH", "message", "logged in", "username", user.Username, "session", session)
	return user, session, nil
}

// loginError maps a failed login call onto the kinds the login form distinguishes.
func loginError(err error) error {
	var apiErr *gwerrors.APIError
	if !errors.As(err, &apiErr) {
		return gwerrors.NewAPIError(gwerrors.KindNetwork, 0, "network error: cannot reach the backend", err)
	}
	switch {
	case apiErr.Status == 0:
		return gwerrors.NewAPIError(gwerrors.KindNetwork, 0, apiErr.Message, err)
	case apiErr.Status == http.StatusUnauthorized:
		return gwerrors.NewAPIError(gwerrors.KindInvalidCredentials, apiErr.Status, bodyMessage(apiErr, gwerrors.ErrInvalidCredentials.Error()), err)
	case apiErr.Status >= http.StatusInternalServerError:
		return gwerrors.NewAPIError(gwerrors.KindNetwork, apiErr.Status, bodyMessage(apiErr, "server error"), err)
	default:
		return gwerrors.NewAPIError(gwerrors.KindInvalidCredentials, apiErr.Status, bodyMessage(apiErr, "login failed"), err)
	}
}

// bodyMessage returns the message the server sent, or fallback when the error only carries the status text.
func bodyMessage(apiErr *gwerrors.APIError, fallback string) string {
	if apiErr.Message == "" || apiErr.Message == http.StatusText(apiErr.Status) {
		return fallback
	}
	return apiErr.Message
}

// Logout revokes the refresh token on the server and always clears the local session, a failed
// revocation is only logged.
func (s *Service) Logout(ctx context.Context) error {
	session, found := s.sessionStore.Get(ctx)
	if found {
		err := s.gateway.Do(
			ctx,
			logoutPath,
			gateway.RequestOptions{Method: http.MethodPost, Body: refreshRequest{Refresh: session.RefreshToken}, SkipAuth: true},
			nil,
		)
		if err != nil {
			slog.Info("AUTH", "message", "logout request failed, clearing the session anyway", "error", err)
		}
	}
	return s.sessionStore.Clear(ctx)
}

// Refresh trades the stored refresh token for a new access token. Any failure clears the session.
// It is meant to be called through gateway.Gateway.Refresh only, which guarantees a single call at
// a time.
func (s *Service) Refresh(ctx context.Context) (models.Session, error) {
	session, found := s.sessionStore.Get(ctx)
	if !found || session.RefreshToken == "" {
		s.clear(ctx)
		return models.Session{}, gwerrors.NewAPIError(gwerrors.KindSessionExpired, 0, "session expired", nil)
	}
	var tokens tokenResponse
	err := s.gateway.Do(
		ctx,
		refreshPath,
		gateway.RequestOptions{Method: http.MethodPost, Body: refreshRequest{Refresh: session.RefreshToken}, SkipAuth: true},
		&tokens,
	)
	if err != nil {
		s.clear(ctx)
		return models.Session{}, refreshError(err)
	}
	access := tokens.access()
	if access == "" {
		s.clear(ctx)
		return models.Session{}, gwerrors.NewAPIError(gwerrors.KindSessionExpired, 0, "invalid server response", nil)
	}
	refresh := tokens.refresh()
	if refresh == "" {
		refresh = session.RefreshToken
	}
	err = s.sessionStore.Set(ctx, access, refresh, tokens.expiry(s.sessionStore.Now()))
	if err != nil {
		s.clear(ctx)
		return models.Session{}, err
	}
	updated, found := s.sessionStore.Get(ctx)
	if !found {
		return models.Session{}, gwerrors.ErrSessionNotFound
	}
	return updated, nil
}

func refreshError(err error) error {
	var apiErr *gwerrors.APIError
	if !errors.As(err, &apiErr) {
		return gwerrors.NewAPIError(gwerrors.KindNetwork, 0, "network error: cannot reach the backend", err)
	}
	if apiErr.Status == 0 {
		// the request never got an answer, keep the transport kind
		return apiErr
	}
	return gwerrors.NewAPIError(gwerrors.KindSessionExpired, apiErr.Status, bodyMessage(apiErr, "session expired"), err)
}

// Me loads the profile of the logged in user. The call goes through the gateway so a rejected
// token is refreshed like for any other request.
func (s *Service) Me(ctx context.Context) (models.User, error) {
	if s.sessionStore.AccessToken(ctx) == "" {
		return models.User{}, gwerrors.NewAPIError(gwerrors.KindUnauthorized, 0, "not authorized", gwerrors.ErrUnauthorized)
	}
	var user models.User
	err := s.gateway.Do(ctx, mePath, gateway.RequestOptions{Method: http.MethodGet}, &user)
	if err != nil {
		if kind, _ := gwerrors.KindOf(err); kind == gwerrors.KindUnauthorized {
			s.clear(ctx)
		}
		return models.User{}, err
	}
	return user, nil
}

// Restore decides whether a stored session is still usable. Only an explicit rejection by the
// backend logs the user out, a backend that cannot be reached keeps the session.
func (s *Service) Restore(ctx context.Context) (State, error) {
	if _, found := s.sessionStore.Get(ctx); !found {
		return State{}, nil
	}
	user, err := s.Me(ctx)
	if err == nil {
		return State{Authenticated: true, User: &user}, nil
	}
	if gwerrors.IsAuthFailure(err) {
		s.clear(ctx)
		return State{}, nil
	}
	slog.Info("AUTH", "message", "could not load the profile, keeping the session", "error", err)
	return State{Authenticated: true}, err
}

func (s *Service) clear(ctx context.Context) {
	if err := s.sessionStore.Clear(ctx); err != nil {
		slog.Error("AUTH", "message", "could not clear the session", "error", err)
	}
}

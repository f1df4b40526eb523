package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phil-crm/phil-console/internal/config"
	"github.com/phil-crm/phil-console/internal/gwerrors"
	"github.com/phil-crm/phil-console/internal/models"
)

// SessionStore is the single owner of the current credential triple. Reads never fail: anything
// that cannot be loaded counts as no session.
type SessionStore struct {
	sessionRepo     models.SessionRepository
	idGenerator     models.IDGenerator
	key             string
	refreshLeadTime time.Duration
	cookieName      string
	cookieMirror    CookieSetter
	now             func() time.Time
	lock            *sync.RWMutex
}

type SessionStoreOption func(*SessionStore) error

func WithSessionRepository(repo models.SessionRepository) SessionStoreOption {
	return func(s *SessionStore) error {
		s.sessionRepo = repo
		return nil
	}
}

func WithConfig(c config.SessionConfig) SessionStoreOption {
	return func(s *SessionStore) error {
		if c.Key != "" {
			s.key = c.Key
		}
		if c.CookieName != "" {
			s.cookieName = c.CookieName
		}
		if c.RefreshLeadTime > 0 {
			s.refreshLeadTime = c.RefreshLeadTime
		}
		return nil
	}
}

func WithRefreshLeadTime(lead time.Duration) SessionStoreOption {
	return func(s *SessionStore) error {
		if lead <= 0 {
			return fmt.Errorf("the refresh lead time has to be positive")
		}
		s.refreshLeadTime = lead
		return nil
	}
}

func WithClock(now func() time.Time) SessionStoreOption {
	return func(s *SessionStore) error {
		s.now = now
		return nil
	}
}

func WithCookieMirror(mirror CookieSetter) SessionStoreOption {
	return func(s *SessionStore) error {
		s.cookieMirror = mirror
		return nil
	}
}

func WithIDGenerator(generator models.IDGenerator) SessionStoreOption {
	return func(s *SessionStore) error {
		s.idGenerator = generator
		return nil
	}
}

func NewSessionStore(options ...SessionStoreOption) (*SessionStore, error) {
	store := SessionStore{
		idGenerator:     models.ULIDGenerator{},
		key:             SessionKey,
		refreshLeadTime: config.DefaultRefreshLeadTime,
		cookieName:      SessionCookieName,
		now:             time.Now,
		lock:            &sync.RWMutex{},
	}
	for _, opt := range options {
		err := opt(&store)
		if err != nil {
			return &SessionStore{}, err
		}
	}
	if store.sessionRepo == nil {
		return &SessionStore{}, fmt.Errorf("session repository is not initialized")
	}
	return &store, nil
}

func (s *SessionStore) load(ctx context.Context) (models.Session, bool) {
	session, err := s.sessionRepo.GetSession(ctx, s.key)
	if err != nil {
		if !errors.Is(err, gwerrors.ErrSessionNotFound) {
			slog.Debug("SESSION STORE", "message", "could not load the session, treating it as absent", "error", err)
		}
		return models.Session{}, false
	}
	if !session.Valid() {
		slog.Debug("SESSION STORE", "message", "stored session is incomplete, treating it as absent", "session", session)
		return models.Session{}, false
	}
	return session, true
}

// Get returns the current session and whether one exists.
func (s *SessionStore) Get(ctx context.Context) (models.Session, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.load(ctx)
}

// Set replaces the whole credential triple and mirrors the access token into the route guard cookie.
func (s *SessionStore) Set(ctx context.Context, accessToken, refreshToken string, expiresAt time.Time) error {
	candidate := models.Session{AccessToken: accessToken, RefreshToken: refreshToken, ExpiresAt: expiresAt}
	if !candidate.Valid() {
		return gwerrors.ErrInvalidSession
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if existing, found := s.load(ctx); found && existing.ID != "" {
		candidate.ID = existing.ID
	} else {
		id, err := s.idGenerator.ID()
		if err != nil {
			return err
		}
		candidate.ID = id
	}
	err := s.sessionRepo.SetSession(ctx, s.key, candidate)
	if err != nil {
		return fmt.Errorf("cannot persist the session: %w", err)
	}
	if s.cookieMirror != nil {
		s.cookieMirror.SetCookie(authCookie(s.cookieName, accessToken))
	}
	slog.Debug("SESSION STORE", "message", "session saved", "session", candidate)
	return nil
}

// Clear removes the session, calling it without a session is fine.
func (s *SessionStore) Clear(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.cookieMirror != nil {
		s.cookieMirror.SetCookie(expiredAuthCookie(s.cookieName))
	}
	err := s.sessionRepo.RemoveSession(ctx, s.key)
	if err != nil && !errors.Is(err, gwerrors.ErrSessionNotFound) {
		slog.Error("SESSION STORE", "message", "could not remove the session", "error", err)
		return err
	}
	return nil
}

// IsRefreshDue is true once the current time is within the refresh lead time of the access token
// expiry. Without a session nothing is due.
func (s *SessionStore) IsRefreshDue(ctx context.Context) bool {
	session, found := s.Get(ctx)
	if !found {
		return false
	}
	return session.RefreshDue(s.now(), s.refreshLeadTime)
}

func (s *SessionStore) AccessToken(ctx context.Context) string {
	session, found := s.Get(ctx)
	if !found {
		return ""
	}
	return session.AccessToken
}

// WriteCookie mirrors the current session into the given cookie sink, used for per-request sinks.
func (s *SessionStore) WriteCookie(ctx context.Context, sink CookieSetter) {
	session, found := s.Get(ctx)
	if !found {
		sink.SetCookie(expiredAuthCookie(s.cookieName))
		return
	}
	sink.SetCookie(authCookie(s.cookieName, session.AccessToken))
}

func (s *SessionStore) Now() time.Time {
	return s.now()
}

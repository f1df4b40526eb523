// Package tokenrefresher renews the access token shortly before it expires.
package tokenrefresher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/phil-crm/phil-console/internal/config"
	"github.com/phil-crm/phil-console/internal/metrics"
)

type TokenRefresher struct {
	Interval time.Duration

	sessionStore RefresherSessionStore
	refresher    Refresher
	metrics      *metrics.GatewayMetrics
	onLoggedOut  func(error)
}

// GetScheduler returns a scheduler that checks the session every interval. A check never starts
// while the previous one is still running.
func (tr *TokenRefresher) GetScheduler() (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	refreshIfDueTask := func(job gocron.Job) {
		err := tr.refreshIfDue(job.Context())
		if err != nil {
			slog.Error("TOKEN REFRESHER", "message", "refreshIfDue failed", "error", err)
		}
	}

	_, err := s.Every(tr.Interval).DoWithJobDetails(refreshIfDueTask)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (tr *TokenRefresher) refreshIfDue(ctx context.Context) error {
	session, found := tr.sessionStore.Get(ctx)
	if !found || !tr.sessionStore.IsRefreshDue(ctx) {
		tr.metrics.ObserveScheduledRefresh(metrics.ScheduledResultIdle)
		return nil
	}
	slog.Debug("TOKEN REFRESHER", "message", "access token expires soon", "session", session)
	err := tr.refresher.Refresh(ctx)
	if err != nil {
		tr.metrics.ObserveScheduledRefresh(metrics.ScheduledResultFailed)
		if _, stillLoggedIn := tr.sessionStore.Get(ctx); !stillLoggedIn && tr.onLoggedOut != nil {
			tr.onLoggedOut(err)
		}
		return err
	}
	tr.metrics.ObserveScheduledRefresh(metrics.ScheduledResultDone)
	slog.Info("TOKEN REFRESHER", "message", "access token refreshed ahead of expiry", "sessionID", session.ID)
	return nil
}

type TokenRefresherOption func(*TokenRefresher) error

func WithInterval(interval time.Duration) TokenRefresherOption {
	return func(tr *TokenRefresher) error {
		tr.Interval = interval
		return nil
	}
}

func WithConfig(sessionConfig config.SessionConfig) TokenRefresherOption {
	return func(tr *TokenRefresher) error {
		tr.Interval = sessionConfig.RefreshInterval
		return nil
	}
}

func WithSessionStore(store RefresherSessionStore) TokenRefresherOption {
	return func(tr *TokenRefresher) error {
		tr.sessionStore = store
		return nil
	}
}

func WithRefresher(refresher Refresher) TokenRefresherOption {
	return func(tr *TokenRefresher) error {
		tr.refresher = refresher
		return nil
	}
}

func WithMetrics(m *metrics.GatewayMetrics) TokenRefresherOption {
	return func(tr *TokenRefresher) error {
		tr.metrics = m
		return nil
	}
}

// WithOnLoggedOut registers a callback for a scheduled refresh that ended the session.
func WithOnLoggedOut(callback func(error)) TokenRefresherOption {
	return func(tr *TokenRefresher) error {
		tr.onLoggedOut = callback
		return nil
	}
}

// NewTokenRefresher creates a new TokenRefresher that refreshes the access token when it expires soon.
func NewTokenRefresher(options ...TokenRefresherOption) (TokenRefresher, error) {
	tr := TokenRefresher{Interval: config.DefaultRefreshInterval}
	for _, opt := range options {
		err := opt(&tr)
		if err != nil {
			return TokenRefresher{}, err
		}
	}
	if tr.Interval <= 0 {
		return TokenRefresher{}, fmt.Errorf("invalid value for Interval (%s)", tr.Interval)
	}
	if tr.sessionStore == nil {
		return TokenRefresher{}, fmt.Errorf("session store not initialized")
	}
	if tr.refresher == nil {
		return TokenRefresher{}, fmt.Errorf("refresher not initialized")
	}
	return tr, nil
}

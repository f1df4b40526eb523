package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"

	"github.com/phil-crm/phil-console/internal/activity"
	"github.com/phil-crm/phil-console/internal/auth"
	"github.com/phil-crm/phil-console/internal/config"
	"github.com/phil-crm/phil-console/internal/db"
	"github.com/phil-crm/phil-console/internal/gateway"
	"github.com/phil-crm/phil-console/internal/links"
	"github.com/phil-crm/phil-console/internal/managers"
	"github.com/phil-crm/phil-console/internal/metrics"
	"github.com/phil-crm/phil-console/internal/sessions"
	"github.com/phil-crm/phil-console/internal/stats"
	"github.com/phil-crm/phil-console/internal/views"
	"github.com/prometheus/client_golang/prometheus"
)

// app holds everything a command needs, wired from one configuration.
type app struct {
	config       config.Config
	registry     *prometheus.Registry
	metrics      *metrics.GatewayMetrics
	sessionStore *sessions.SessionStore
	// consoleJar receives the route guard cookie mirrored from the session
	consoleJar http.CookieJar
	gateway    *gateway.Gateway
	auth       *auth.Service
	links      *links.Client
	managers   *managers.Client
	activity   *activity.Client
	stats      *stats.Client
}

func newApp(cfg config.Config) (*app, error) {
	a := app{config: cfg, registry: prometheus.NewRegistry()}
	a.metrics = metrics.NewGatewayMetrics(a.registry)

	sessionRepo, err := db.NewSessionRepository(cfg.Sessions, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("session repository initialization failed: %w", err)
	}
	if cfg.Sessions.TokenEncryption.Enabled {
		slog.Info("PHILCTL", "message", "session encryption is enabled")
	}
	storeOptions := []sessions.SessionStoreOption{
		sessions.WithSessionRepository(sessionRepo),
		sessions.WithConfig(cfg.Sessions),
	}
	if cfg.Sessions.ConsoleURL != nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		a.consoleJar = jar
		storeOptions = append(storeOptions, sessions.WithCookieMirror(sessions.JarMirror{Jar: jar, URL: cfg.Sessions.ConsoleURL}))
	}
	a.sessionStore, err = sessions.NewSessionStore(storeOptions...)
	if err != nil {
		return nil, fmt.Errorf("session store initialization failed: %w", err)
	}

	a.gateway, err = gateway.NewGateway(
		gateway.WithConfig(cfg.API),
		gateway.WithSessionStore(a.sessionStore),
		gateway.WithMetrics(a.metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("gateway initialization failed: %w", err)
	}
	a.auth, err = auth.NewService(auth.WithGateway(a.gateway), auth.WithSessionStore(a.sessionStore))
	if err != nil {
		return nil, fmt.Errorf("auth service initialization failed: %w", err)
	}
	a.gateway.SetRefresher(a.auth)

	a.links, err = links.NewClient(a.gateway)
	if err != nil {
		return nil, err
	}
	a.managers, err = managers.NewClient(a.gateway)
	if err != nil {
		return nil, err
	}
	a.activity, err = activity.NewClient(a.gateway)
	if err != nil {
		return nil, err
	}
	a.stats, err = stats.NewClient(a.gateway)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (a *app) linksView(filter links.Filter) (*views.LinksView, error) {
	return views.NewLinksView(
		views.WithLinksClient(a.links),
		views.WithConfig(a.config.API),
		views.WithFilter(filter),
	)
}

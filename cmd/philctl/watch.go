package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/phil-crm/phil-console/internal/config"
	"github.com/phil-crm/phil-console/internal/tokenrefresher"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func (c *cli) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep the session alive until interrupted",
		Long: `Keep the session alive by refreshing the access token shortly before it expires.
When prometheus is enabled in the configuration the metrics of the backend calls are
served on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return c.watch(ctx)
		},
	}
}

func (c *cli) watch(ctx context.Context) error {
	loggedOut := make(chan error, 1)
	refresher, err := tokenrefresher.NewTokenRefresher(
		tokenrefresher.WithConfig(c.app.config.Sessions),
		tokenrefresher.WithSessionStore(c.app.sessionStore),
		tokenrefresher.WithRefresher(c.app.gateway),
		tokenrefresher.WithMetrics(c.app.metrics),
		tokenrefresher.WithOnLoggedOut(func(err error) {
			select {
			case loggedOut <- err:
			default:
			}
		}),
	)
	if err != nil {
		return err
	}
	scheduler, err := refresher.GetScheduler()
	if err != nil {
		return err
	}
	if c.configHandler != nil {
		c.configHandler.HandleChanges(func(cfg config.Config, err error) {
			if err != nil {
				slog.Error("PHILCTL", "message", "the changed configuration is invalid and was ignored", "error", err)
				return
			}
			slog.Info("PHILCTL", "message", "configuration changed, restart the watch to apply it", "config", cfg)
		})
		c.configHandler.Watch()
	}
	if c.app.config.Monitoring.Prometheus.Enabled {
		metricsServer := c.metricsServer()
		go func() {
			err := metricsServer.Start(fmt.Sprintf(":%d", c.app.config.Monitoring.Prometheus.Port))
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("PHILCTL", "message", "prometheus server failed to start", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("PHILCTL", "message", "shutting down the prometheus server failed", "error", err)
			}
		}()
	}

	slog.Info("PHILCTL", "message", "keeping the session alive", "interval", refresher.Interval)
	scheduler.StartAsync()
	defer scheduler.Stop()
	select {
	case <-ctx.Done():
		slog.Info("PHILCTL", "message", "received signal to stop watching")
		return nil
	case err := <-loggedOut:
		return fmt.Errorf("the session ended, log in again: %w", err)
	}
}

func (c *cli) metricsServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(c.app.registry, promhttp.HandlerOpts{})))
	return e
}

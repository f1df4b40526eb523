package main

import (
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/phil-crm/phil-console/internal/config"
	"github.com/spf13/cobra"
)

type cli struct {
	loadConfig func() (config.Config, error)
	// configHandler is only set when the configuration comes from files that can be watched
	configHandler *config.ConfigHandler
	sentryEnabled bool
	app           *app
}

func newCLI(loadConfig func() (config.Config, error)) *cli {
	return &cli{loadConfig: loadConfig}
}

func (c *cli) root() *cobra.Command {
	root := &cobra.Command{
		Use:   "philctl",
		Short: "philctl - command line console for the phil negative links backend",
		Long: `philctl talks to the phil backend with the same session as the web console.

Configuration is read from config.yaml and secret_config.yaml in $CONFIG_LOCATION,
$HOME/.config/phil, /etc/phil or the current directory. Environment variables
override any value with the PHIL_ prefix, e.g. PHIL_API_BASEURL=https://phil.example.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}
	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.tokenCmd(),
		c.linksCmd(),
		c.managersCmd(),
		c.activityCmd(),
		c.statsCmd(),
		c.watchCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return fmt.Errorf("loading the configuration failed: %w", err)
	}
	err = cfg.Validate()
	if err != nil {
		return fmt.Errorf("the config validation failed: %w", err)
	}
	if cfg.DebugMode {
		logLevel.Set(slog.LevelDebug)
	}
	slog.Debug("PHILCTL", "message", "loaded config", "config", cfg)
	if cfg.Monitoring.Sentry.Enabled {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              string(cfg.Monitoring.Sentry.Dsn),
			TracesSampleRate: cfg.Monitoring.Sentry.SampleRate,
			Environment:      cfg.Monitoring.Sentry.Environment,
		})
		if err != nil {
			slog.Error("PHILCTL", "message", "sentry initialization failed", "error", err)
		} else {
			c.sentryEnabled = true
		}
	}
	c.app, err = newApp(cfg)
	return err
}

package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/phil-crm/phil-console/internal/config"
)

// Logs go to stderr so they never mix with the command output on stdout
var logLevel *slog.LevelVar = new(slog.LevelVar)
var jsonLogger *slog.Logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

func main() {
	slog.SetDefault(jsonLogger)
	ch := config.NewConfigHandler()
	c := newCLI(ch.Config)
	c.configHandler = ch
	err := c.root().Execute()
	if err != nil {
		if c.sentryEnabled {
			sentry.CaptureException(err)
			sentry.Flush(2 * time.Second)
		}
		os.Exit(1)
	}
}

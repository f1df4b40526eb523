package config

import "fmt"

type SentryConfig struct {
	Enabled     bool
	Dsn         RedactedString
	Environment string
	SampleRate  float64
}

type PrometheusConfig struct {
	Enabled bool
	Port    int
}

type MonitoringConfig struct {
	Sentry     SentryConfig
	Prometheus PrometheusConfig
}

func (c *MonitoringConfig) Validate() error {
	if c.Sentry.Enabled && c.Sentry.Dsn == "" {
		return fmt.Errorf("sentry is enabled but no DSN is set")
	}
	if c.Sentry.SampleRate < 0 || c.Sentry.SampleRate > 1 {
		return fmt.Errorf("the sentry sample rate has to be between 0 and 1, got %v", c.Sentry.SampleRate)
	}
	if c.Prometheus.Enabled && (c.Prometheus.Port <= 0 || c.Prometheus.Port > 65535) {
		return fmt.Errorf("invalid prometheus port %d", c.Prometheus.Port)
	}
	return nil
}

type RateLimits struct {
	Enabled bool
	Rate    float64
	Burst   int
}

func (r RateLimits) Validate() error {
	if !r.Enabled {
		return nil
	}
	if r.Rate <= 0 || r.Burst <= 0 {
		return fmt.Errorf("rate limits need a positive rate and burst, got rate %v and burst %d", r.Rate, r.Burst)
	}
	return nil
}

// RedactedString is used for secrets that should not show up in logs or printed configuration.
type RedactedString string

func (r RedactedString) String() string {
	return fmt.Sprintf("<redacted-%d-chars>", len(r))
}

func (r RedactedString) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r RedactedString) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", r.String())), nil
}

func (r RedactedString) MarshalBinary() ([]byte, error) {
	return []byte(r.String()), nil
}

package config

import (
	"fmt"
	"net/url"
	"time"
)

const DefaultRequestTimeout = 30 * time.Second
const DefaultListTimeout = 15 * time.Second

type APIConfig struct {
	BaseURL        *url.URL
	RequestTimeout time.Duration
	// ListTimeout bounds the full-list fetches of the links view
	ListTimeout time.Duration
	RateLimits  RateLimits
}

func (c *APIConfig) Validate() error {
	if c.BaseURL == nil {
		return fmt.Errorf("the API base URL is not set")
	}
	if c.BaseURL.Scheme != "http" && c.BaseURL.Scheme != "https" {
		return fmt.Errorf("the API base URL must use http or https, got %q", c.BaseURL.Scheme)
	}
	if c.BaseURL.Host == "" {
		return fmt.Errorf("the API base URL %q has no host", c.BaseURL.String())
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("the request timeout has to be positive, got %s", c.RequestTimeout)
	}
	if c.ListTimeout <= 0 {
		return fmt.Errorf("the list timeout has to be positive, got %s", c.ListTimeout)
	}
	return c.RateLimits.Validate()
}

// Endpoint resolves an API path against the base URL, keeping any path prefix of the base URL.
func (c *APIConfig) Endpoint(path string) string {
	return c.BaseURL.JoinPath(path).String()
}

package config

import (
	"fmt"
	"net/url"
	"time"
)

const (
	SessionBackendRedis  string = "redis"
	SessionBackendFile   string = "file"
	SessionBackendMemory string = "memory"
)

const DefaultSessionKey string = "phil_auth"
const DefaultRefreshLeadTime = 5 * time.Minute
const DefaultRefreshInterval = time.Minute
const DefaultMaxLifetime = 7 * 24 * time.Hour

type TokenEncryptionConfig struct {
	Enabled   bool
	SecretKey RedactedString
}

type SessionConfig struct {
	Backend  string
	Key      string
	FilePath string
	// CookieName is the name of the cookie mirroring the access token for the console's route guard
	CookieName      string
	ConsoleURL      *url.URL
	RefreshLeadTime time.Duration
	RefreshInterval time.Duration
	MaxLifetime     time.Duration
	TokenEncryption TokenEncryptionConfig
}

func (c *SessionConfig) Validate() error {
	switch c.Backend {
	case SessionBackendRedis, SessionBackendMemory:
	case SessionBackendFile:
		if c.FilePath == "" {
			return fmt.Errorf("the file session backend requires a file path")
		}
	default:
		return fmt.Errorf(
			"unknown session backend %q (must be one of %s, %s, %s)",
			c.Backend,
			SessionBackendRedis,
			SessionBackendFile,
			SessionBackendMemory,
		)
	}
	if c.Key == "" {
		return fmt.Errorf("the session key cannot be empty")
	}
	if c.RefreshLeadTime <= 0 {
		return fmt.Errorf("the refresh lead time has to be positive, got %s", c.RefreshLeadTime)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("the refresh interval has to be positive, got %s", c.RefreshInterval)
	}
	if c.MaxLifetime < c.RefreshLeadTime {
		return fmt.Errorf("max session lifetime (%s) cannot be less than the refresh lead time (%s)", c.MaxLifetime, c.RefreshLeadTime)
	}
	if c.TokenEncryption.Enabled && len(c.TokenEncryption.SecretKey) != 32 {
		return fmt.Errorf(
			"token encryption key has to be 32 bytes long, the provided one is %d long",
			len(c.TokenEncryption.SecretKey),
		)
	}
	return nil
}

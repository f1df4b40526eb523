package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func getValidConfig(t *testing.T) Config {
	return Config{
		RunningEnvironment: Production,
		API:                getValidAPIConfig(t),
		Sessions:           getValidSessionConfig(t),
		Redis:              getValidRedisConfig(),
	}
}

func TestValidConfig(t *testing.T) {
	config := getValidConfig(t)

	err := config.Validate()

	assert.NoError(t, err)
}

func TestInvalidRunningEnvironment(t *testing.T) {
	config := getValidConfig(t)
	config.RunningEnvironment = "staging"

	err := config.Validate()

	assert.Error(t, err)
}

func TestInvalidAPIConfig(t *testing.T) {
	config := getValidConfig(t)
	config.API.BaseURL = nil

	err := config.Validate()

	assert.Error(t, err)
}

func TestInvalidSessionsConfig(t *testing.T) {
	config := getValidConfig(t)
	config.Sessions.RefreshLeadTime = 0

	err := config.Validate()

	assert.Error(t, err)
}

func TestRedisConfigOnlyCheckedForRedisBackend(t *testing.T) {
	config := getValidConfig(t)
	config.Redis.Type = "redis-mock"

	assert.Error(t, config.Validate())

	config.Sessions.Backend = SessionBackendMemory
	assert.NoError(t, config.Validate())
}

func TestInvalidMonitoringConfig(t *testing.T) {
	config := getValidConfig(t)
	config.Monitoring.Sentry.Enabled = true

	err := config.Validate()

	assert.ErrorContains(t, err, "DSN")
}

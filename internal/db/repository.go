package db

import (
	"fmt"

	"github.com/phil-crm/phil-console/internal/config"
	"github.com/phil-crm/phil-console/internal/models"
)

// NewSessionRepository builds the persistence backend selected in the session configuration.
func NewSessionRepository(sessions config.SessionConfig, redisConfig config.RedisConfig) (models.SessionRepository, error) {
	switch sessions.Backend {
	case config.SessionBackendRedis:
		options := []RedisAdapterOption{WithRedisConfig(redisConfig), WithMaxLifetime(sessions.MaxLifetime)}
		if sessions.TokenEncryption.Enabled {
			options = append(options, WithEncryption(string(sessions.TokenEncryption.SecretKey)))
		}
		return NewRedisAdapter(options...)
	case config.SessionBackendFile:
		options := []FileAdapterOption{WithFilePath(sessions.FilePath)}
		if sessions.TokenEncryption.Enabled {
			options = append(options, WithFileEncryption(string(sessions.TokenEncryption.SecretKey)))
		}
		return NewFileAdapter(options...)
	case config.SessionBackendMemory:
		return NewMemoryAdapter(), nil
	default:
		return nil, fmt.Errorf("unrecognized session backend %v", sessions.Backend)
	}
}

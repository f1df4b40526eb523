package db

import (
	"context"
	"sync"

	"github.com/phil-crm/phil-console/internal/gwerrors"
	"github.com/phil-crm/phil-console/internal/models"
)

// MemoryAdapter keeps sessions for the lifetime of the process only.
type MemoryAdapter struct {
	sessions map[string]models.Session
	lock     sync.RWMutex
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{sessions: map[string]models.Session{}}
}

func (m *MemoryAdapter) GetSession(_ context.Context, key string) (models.Session, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	session, found := m.sessions[key]
	if !found {
		return models.Session{}, gwerrors.ErrSessionNotFound
	}
	return session, nil
}

func (m *MemoryAdapter) SetSession(_ context.Context, key string, session models.Session) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.sessions[key] = session
	return nil
}

func (m *MemoryAdapter) RemoveSession(_ context.Context, key string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.sessions, key)
	return nil
}

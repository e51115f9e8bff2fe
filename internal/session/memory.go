package session

import (
	"context"
	"sync"

	"github.com/proferick/planeador/internal/domain"
)

// MemoryStore keeps sessions in a process-wide map. State is lost on
// restart, which matches the accepted lifetime of a conversation.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*domain.Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*domain.Session)}
}

// GetOrCreate retrieves or creates the session for a user.
func (m *MemoryStore) GetOrCreate(_ context.Context, userID int64) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		return s, nil
	}
	s := domain.NewSession(userID)
	m.sessions[userID] = s
	return s, nil
}

// Save persists the session. The map holds the live pointer, so the write
// just replaces the entry.
func (m *MemoryStore) Save(_ context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.UserID] = s
	return nil
}

// Reset replaces the user's session with a fresh default one.
func (m *MemoryStore) Reset(_ context.Context, userID int64) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := domain.NewSession(userID)
	m.sessions[userID] = s
	return s, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }

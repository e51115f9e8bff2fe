// Package session provides conversational session storage.
package session

import (
	"context"

	"github.com/proferick/planeador/internal/domain"
)

// Store defines the interface for persisting per-user session state.
// Implementations follow last-writer-wins per key; callers that need
// read-modify-write isolation serialize through a KeyedMutex.
type Store interface {
	// GetOrCreate retrieves the session for a user, creating a fresh one
	// with empty defaults if absent.
	GetOrCreate(ctx context.Context, userID int64) (*domain.Session, error)

	// Save persists the session state.
	Save(ctx context.Context, s *domain.Session) error

	// Reset replaces the user's session with a fresh default one,
	// discarding history and accumulated data, and returns it.
	Reset(ctx context.Context, userID int64) (*domain.Session, error)

	// Close releases any underlying resources.
	Close() error
}

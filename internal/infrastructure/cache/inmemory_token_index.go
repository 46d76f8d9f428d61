package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryTokenIndex implements TokenIndex using a process-local map.
// Suitable for single-instance deployments and testing.
type InMemoryTokenIndex struct {
	mu      sync.RWMutex
	entries map[string]uuid.UUID
}

// NewInMemoryTokenIndex creates a new in-memory token index
func NewInMemoryTokenIndex() *InMemoryTokenIndex {
	return &InMemoryTokenIndex{
		entries: make(map[string]uuid.UUID),
	}
}

// Get resolves a token to a tracking ID
func (s *InMemoryTokenIndex) Get(ctx context.Context, token string) (uuid.UUID, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.entries[token]
	return id, ok, nil
}

// Set records a token to tracking ID mapping
func (s *InMemoryTokenIndex) Set(ctx context.Context, token string, trackingID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[token] = trackingID
	return nil
}

// Close is a no-op for the in-memory index
func (s *InMemoryTokenIndex) Close() error {
	return nil
}

// Ensure InMemoryTokenIndex implements TokenIndex
var _ TokenIndex = (*InMemoryTokenIndex)(nil)

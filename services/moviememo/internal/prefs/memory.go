package prefs

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu    sync.RWMutex
	state map[string]Preferences
}

// NewMemoryStore is exported for tests of components layered on prefs.
func NewMemoryStore() Store {
	return &memoryStore{state: make(map[string]Preferences)}
}

func (s *memoryStore) Get(_ context.Context, clientID string) (Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.state[clientID]
	if !ok {
		return Defaults(), nil
	}
	return p, nil
}

func (s *memoryStore) Put(_ context.Context, clientID string, p Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[clientID] = p
	return nil
}

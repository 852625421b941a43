package ledger

import (
	"context"
	"sync"
)

// memoryLedger is a development-only in-memory ledger.
// WARNING: state is lost on restart and does not work across instances.
type memoryLedger struct {
	mu    sync.RWMutex
	liked map[string]map[string]struct{} // clientID -> commentID set
}

// NewMemoryLedger is exported for tests of components layered on the ledger.
func NewMemoryLedger() Ledger {
	return &memoryLedger{liked: make(map[string]map[string]struct{})}
}

func (l *memoryLedger) HasLiked(_ context.Context, clientID, commentID string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.liked[clientID][commentID]
	return ok, nil
}

func (l *memoryLedger) RecordLiked(_ context.Context, clientID, commentID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.liked[clientID] == nil {
		l.liked[clientID] = make(map[string]struct{})
	}
	l.liked[clientID][commentID] = struct{}{}
	return nil
}

package memory

import (
	"context"
	"sync"

	"github.com/statebridge/statebridge/pkg/ports"
)

// Store is an in-memory state backend used for local development and as
// the fallback when the Dapr sidecar is unreachable at startup. Data
// does not survive a process restart, and the store name is accepted
// but not used to partition keys.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ ports.StateClient = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// GetState returns a copy of the value stored under key. The copy keeps
// callers from mutating the stored bytes behind the lock.
func (s *Store) GetState(ctx context.Context, store, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// SaveState upserts value under key. Last write wins.
func (s *Store) SaveState(ctx context.Context, store, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = stored
	return nil
}

// DeleteState removes key. Deleting an absent key is a no-op.
func (s *Store) DeleteState(ctx context.Context, store, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}

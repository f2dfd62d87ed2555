package checkpoint

import (
	"context"
	"sync"
)

// MemoryStore keeps the checkpoint in memory. It does not survive the process
// and is meant for tests.
type MemoryStore struct {
	mu      sync.Mutex
	current *Checkpoint
	closed  bool
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save implements Store
func (s *MemoryStore) Save(_ context.Context, args Args) (*Checkpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	s.current = newCheckpoint(args)
	cp := *s.current
	return &cp, nil
}

// MostRecent implements Store
func (s *MemoryStore) MostRecent(_ context.Context) (*Checkpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	if s.current == nil {
		return nil, nil
	}
	cp := *s.current
	return &cp, nil
}

// Clear implements Store
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.current = nil
	return nil
}

// Close implements Store
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

package novelty

import (
	"context"
	"sync"
)

// MemStore is an in-process Store. State does not survive a restart, which
// matches the reference deployment where the process is long-lived and a
// restart intentionally re-primes the baseline.
type MemStore struct {
	mu     sync.Mutex
	ids    []string
	primed bool
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Load(_ context.Context) ([]string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out, s.primed, nil
}

func (s *MemStore) Save(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make([]string, len(ids))
	copy(s.ids, ids)
	s.primed = true
	return nil
}

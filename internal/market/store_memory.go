package market

import (
	"context"
	"sync"
)

// MemStore keeps the catalog in memory. Values returns items in insertion
// order; a relist of an existing id keeps its slot.
type MemStore struct {
	mu    sync.RWMutex
	m     map[string]Item
	order []string
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[string]Item{}}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Put(ctx context.Context, it Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[it.ID]; !ok {
		s.order = append(s.order, it.ID)
	}
	s.m[it.ID] = it
	return nil
}

func (s *MemStore) Get(ctx context.Context, id string) (Item, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.m[id]
	return it, ok, nil
}

func (s *MemStore) Values(ctx context.Context) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.m[id])
	}
	return out, nil
}

package share

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process map store for development and testing.
type MemoryStore struct {
	mu   sync.RWMutex
	maps map[string]*Map
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{maps: make(map[string]*Map)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Map, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.maps[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (s *MemoryStore) Set(ctx context.Context, m *Map) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.UpdatedAt = time.Now().UTC()
	cp := *m
	s.maps[m.ID] = &cp
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.maps, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*Map, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Map, 0, len(s.maps))
	for _, m := range s.maps {
		cp := *m
		out = append(out, &cp)
	}
	sortByUpdated(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)

// Package memory is an in-process export destination, used by tests and by
// local runs without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/mateuscelis/sistema/internal/core"
)

type Store struct {
	mu    sync.Mutex
	items map[int64]core.Faturamento
}

func New() *Store {
	return &Store{items: make(map[int64]core.Faturamento)}
}

// Upsert stores the faturamento keyed by id and returns a synthetic row
// reference.
func (s *Store) Upsert(_ context.Context, f core.Faturamento) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[f.ID] = f
	return fmt.Sprintf("mem:%d", f.ID), nil
}

// Remove deletes the stored faturamento. Unknown ids are a no-op.
func (s *Store) Remove(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

// Get returns the stored faturamento for inspection.
func (s *Store) Get(id int64) (core.Faturamento, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.items[id]
	return f, ok
}

// Len returns how many faturamentos are stored.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

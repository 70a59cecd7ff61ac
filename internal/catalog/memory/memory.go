package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"steamstats/internal/catalog"
	"steamstats/internal/core"
)

// Store holds catalog records in memory.
type Store struct {
	mu    sync.Mutex
	items []core.Record
}

var _ catalog.RowReader = (*Store)(nil)

func New(records ...core.Record) *Store {
	s := &Store{}
	for _, r := range records {
		s.items = append(s.items, maps.Clone(r))
	}
	return s
}

// Append stores a record and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, r core.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, maps.Clone(r))
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

func (s *Store) Describe() string {
	return "memory"
}

// ReadRows returns copies so callers cannot modify the stored rows.
func (s *Store) ReadRows(_ context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Record, len(s.items))
	for i, r := range s.items {
		out[i] = maps.Clone(r)
	}
	return out, nil
}

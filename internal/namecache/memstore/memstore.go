// Package memstore is a namecache.Store that keeps rows in process memory.
// Nothing survives a restart; it backs the "memory" cache backend and tests.
package memstore

import (
	"context"
	"sync"

	"scenecache/internal/namecache"
)

// Store is a map-backed scene name table. The zero value is ready to use.
type Store struct {
	mu    sync.Mutex
	ids   map[string]int64
	order []string
}

var _ namecache.Store = (*Store)(nil)

// New returns a store seeded with rows, applied in order.
func New(rows ...namecache.Row) *Store {
	s := &Store{}
	_ = s.Upsert(context.Background(), rows...)
	return s
}

// Upsert inserts or replaces rows keyed by name.
func (s *Store) Upsert(_ context.Context, rows ...namecache.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ids == nil {
		s.ids = make(map[string]int64)
	}
	for _, row := range rows {
		if _, ok := s.ids[row.Name]; !ok {
			s.order = append(s.order, row.Name)
		}
		s.ids[row.Name] = row.IndexerID
	}
	return nil
}

// Rows returns every row in first-insert order.
func (s *Store) Rows(context.Context) ([]namecache.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]namecache.Row, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, namecache.Row{IndexerID: s.ids[name], Name: name})
	}
	return out, nil
}

// DeleteByID removes every row with the given indexer id.
func (s *Store) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.order[:0]
	for _, name := range s.order {
		if s.ids[name] == id {
			delete(s.ids, name)
			continue
		}
		kept = append(kept, name)
	}
	s.order = kept
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

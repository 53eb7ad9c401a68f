package namecache

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var errStoreDown = errors.New("store unavailable")

type fakeStore struct {
	mu      sync.Mutex
	rows    map[string]int64
	order   []string
	upserts int
	deletes int

	upsertErr error
	rowsErr   error
	deleteErr error

	// rowsHook runs inside Rows before rows are returned.
	rowsHook func()
}

func newFakeStore(rows ...Row) *fakeStore {
	s := &fakeStore{rows: make(map[string]int64)}
	for _, row := range rows {
		s.put(row)
	}
	return s
}

func (s *fakeStore) put(row Row) {
	if _, ok := s.rows[row.Name]; !ok {
		s.order = append(s.order, row.Name)
	}
	s.rows[row.Name] = row.IndexerID
}

func (s *fakeStore) Upsert(_ context.Context, rows ...Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upserts++
	for _, row := range rows {
		s.put(row)
	}
	return nil
}

func (s *fakeStore) Rows(context.Context) ([]Row, error) {
	if s.rowsHook != nil {
		s.rowsHook()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rowsErr != nil {
		return nil, s.rowsErr
	}
	out := make([]Row, 0, len(s.order))
	for _, name := range s.order {
		if id, ok := s.rows[name]; ok {
			out = append(out, Row{IndexerID: id, Name: name})
		}
	}
	return out, nil
}

func (s *fakeStore) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletes++
	for name, stored := range s.rows {
		if stored == id {
			delete(s.rows, name)
		}
	}
	return nil
}

func (s *fakeStore) get(name string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.rows[name]
	return id, ok
}

func (s *fakeStore) upsertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upserts
}

type fakeExceptions struct {
	names     map[int64]map[int][]string
	refreshes int
	err       error
}

func newFakeExceptions() *fakeExceptions {
	return &fakeExceptions{names: make(map[int64]map[int][]string)}
}

func (f *fakeExceptions) add(showID int64, season int, names ...string) {
	if f.names[showID] == nil {
		f.names[showID] = make(map[int][]string)
	}
	f.names[showID][season] = append(f.names[showID][season], names...)
}

func (f *fakeExceptions) Refresh(context.Context) error {
	f.refreshes++
	return f.err
}

func (f *fakeExceptions) Names(showID int64, season int) []string {
	return f.names[showID][season]
}

func (f *fakeExceptions) Seasons(showID int64) []int {
	var seasons []int
	for season := range f.names[showID] {
		if season != -1 {
			seasons = append(seasons, season)
		}
	}
	sort.Ints(seasons)
	return seasons
}

type fakeCatalog struct {
	shows []Show
	err   error
}

func (f *fakeCatalog) Shows(context.Context) ([]Show, error) {
	return f.shows, f.err
}

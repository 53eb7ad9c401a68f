package namecache

import "context"

// Row is one record of the durable scene_names table. IndexerID 0 marks an
// unresolved name.
type Row struct {
	IndexerID int64  `json:"indexer_id"`
	Name      string `json:"name"`
}

// Store is the durable table the cache is mirrored to. Name is the effective
// unique key.
type Store interface {
	// Upsert inserts or replaces rows keyed by name; the last write wins.
	Upsert(ctx context.Context, rows ...Row) error
	// Rows returns every stored row.
	Rows(ctx context.Context) ([]Row, error)
	// DeleteByID removes every row whose indexer id equals id.
	DeleteByID(ctx context.Context, id int64) error
}

// Sanitizer normalizes a raw name into a cache key. It must be pure and
// deterministic.
type Sanitizer func(raw string) string

// Show is a catalogued show.
type Show struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Exceptions supplies alternate names (scene exceptions) per show and season.
// Season -1 holds the aliases that are not tied to a season.
type Exceptions interface {
	Refresh(ctx context.Context) error
	Names(showID int64, season int) []string
	Seasons(showID int64) []int
}

// Catalog enumerates the known shows.
type Catalog interface {
	Shows(ctx context.Context) ([]Show, error)
}

type noExceptions struct{}

func (noExceptions) Refresh(context.Context) error { return nil }

func (noExceptions) Names(int64, int) []string { return nil }

func (noExceptions) Seasons(int64) []int { return nil }

type emptyCatalog struct{}

func (emptyCatalog) Shows(context.Context) ([]Show, error) { return nil, nil }

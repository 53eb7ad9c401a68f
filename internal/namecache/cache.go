package namecache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"scenecache/internal/logging"
	"scenecache/internal/textutil"
)

var (
	// ErrEmptyName is returned when a name sanitizes to the empty string.
	ErrEmptyName = errors.New("scene name is empty after sanitization")
	// ErrInvalidID is returned for show identifiers that are not positive.
	ErrInvalidID = errors.New("invalid show identifier")
)

// Options configures a Cache. Only Store is required.
type Options struct {
	Store      Store
	Exceptions Exceptions
	Catalog    Catalog
	Sanitizer  Sanitizer
	Logger     *slog.Logger
	Metrics    *Metrics
}

// Entry is a single cached name.
type Entry struct {
	Name  string `json:"name"`
	Match Match  `json:"indexer_id"`
}

// Cache maps sanitized scene names to show identifiers. The map lives in
// memory and is mirrored to a durable Store.
//
// Point operations (Add, Lookup, PurgeUnresolved, Flush) take the map lock only
// for the instant they touch the map. Rebuild holds its own lock for its whole
// run but releases the map between steps, so a concurrent Lookup can observe a
// cache that has been purged and not yet repopulated and report not-found.
// Concurrent Adds during a rebuild follow first-writer-wins like the rebuild
// itself.
type Cache struct {
	store      Store
	exceptions Exceptions
	catalog    Catalog
	sanitize   Sanitizer
	logger     *slog.Logger
	metrics    *Metrics

	mu      sync.RWMutex
	entries map[string]Match

	rebuildMu sync.Mutex
}

// New constructs an empty cache. Call Rebuild to populate it.
func New(opts Options) (*Cache, error) {
	if opts.Store == nil {
		return nil, errors.New("namecache: store is required")
	}
	c := &Cache{
		store:      opts.Store,
		exceptions: opts.Exceptions,
		catalog:    opts.Catalog,
		sanitize:   opts.Sanitizer,
		logger:     logging.NewComponentLogger(opts.Logger, "namecache"),
		metrics:    opts.Metrics,
		entries:    make(map[string]Match),
	}
	if c.exceptions == nil {
		c.exceptions = noExceptions{}
	}
	if c.catalog == nil {
		c.catalog = emptyCatalog{}
	}
	if c.sanitize == nil {
		c.sanitize = textutil.SanitizeSceneName
	}
	return c, nil
}

// Sanitize returns the cache key for name.
func (c *Cache) Sanitize(name string) string {
	return c.sanitize(name)
}

// Add caches name with match and writes it to the store. If the sanitized name
// is already cached, Add does nothing: an existing unresolved entry is not
// upgraded by a later Add, only by a rebuild.
//
// The memory entry is set before the store write; if the write fails the error
// is returned and memory keeps the entry.
func (c *Cache) Add(ctx context.Context, name string, match Match) error {
	if id, ok := match.ID(); ok && id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	key := c.sanitize(name)
	if key == "" {
		return ErrEmptyName
	}

	c.mu.Lock()
	if _, exists := c.entries[key]; exists {
		c.mu.Unlock()
		c.metrics.observeAdd(false)
		return nil
	}
	c.entries[key] = match
	size := len(c.entries)
	c.mu.Unlock()

	c.metrics.observeAdd(true)
	c.metrics.setEntries(size)

	if err := c.store.Upsert(ctx, Row{IndexerID: match.storedID(), Name: key}); err != nil {
		return fmt.Errorf("persist scene name %q: %w", key, err)
	}
	return nil
}

// AddUnresolved caches name as seen but not yet matched to a show.
func (c *Cache) AddUnresolved(ctx context.Context, name string) error {
	return c.Add(ctx, name, Unresolved)
}

// Lookup returns the match cached for name.
func (c *Cache) Lookup(name string) (Match, bool) {
	key := c.sanitize(name)

	c.mu.RLock()
	match, ok := c.entries[key]
	c.mu.RUnlock()

	c.metrics.observeLookup(match, ok)
	return match, ok
}

// PurgeUnresolved removes every unresolved entry from the store and from
// memory. The store is cleared first with a single delete; if that fails,
// memory is left untouched.
func (c *Cache) PurgeUnresolved(ctx context.Context) error {
	c.mu.Lock()
	if c.entries == nil {
		c.entries = make(map[string]Match)
	}
	c.mu.Unlock()

	if err := c.store.DeleteByID(ctx, unresolvedID); err != nil {
		return fmt.Errorf("delete unresolved scene names: %w", err)
	}

	c.mu.Lock()
	removed := 0
	for key, match := range c.entries {
		if !match.IsResolved() {
			delete(c.entries, key)
			removed++
		}
	}
	size := len(c.entries)
	c.mu.Unlock()

	c.metrics.observePurge(removed)
	c.metrics.setEntries(size)
	if removed > 0 {
		c.logger.Debug("purged unresolved scene names", logging.Int("removed", removed))
	}
	return nil
}

// Flush writes every cached entry to the store with insert-or-replace
// semantics.
func (c *Cache) Flush(ctx context.Context) error {
	c.mu.RLock()
	rows := make([]Row, 0, len(c.entries))
	for key, match := range c.entries {
		rows = append(rows, Row{IndexerID: match.storedID(), Name: key})
	}
	c.mu.RUnlock()

	if len(rows) == 0 {
		return nil
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })

	if err := c.store.Upsert(ctx, rows...); err != nil {
		return fmt.Errorf("flush scene names: %w", err)
	}
	c.logger.Debug("flushed name cache", logging.Int("rows", len(rows)))
	return nil
}

// Count returns the number of cached names.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Entries returns a snapshot of the cache sorted by name.
func (c *Cache) Entries() []Entry {
	c.mu.RLock()
	entries := make([]Entry, 0, len(c.entries))
	for key, match := range c.entries {
		entries = append(entries, Entry{Name: key, Match: match})
	}
	c.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// setIfAbsent caches key without touching the store. It reports whether the
// entry was added.
func (c *Cache) setIfAbsent(key string, match Match) bool {
	if key == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; exists {
		return false
	}
	c.entries[key] = match
	return true
}

// Package showcatalog enumerates the shows known to scenecache from a YAML
// file.
package showcatalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"scenecache/internal/logging"
	"scenecache/internal/namecache"
)

type showYAML struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

type catalogFile struct {
	Shows []showYAML `yaml:"shows"`
}

// File is a show catalog backed by a YAML document of the form
//
//	shows:
//	  - id: 42
//	    name: Show A
//
// The document is reread whenever its modification time or size changes.
type File struct {
	path   string
	logger *slog.Logger

	mu     sync.RWMutex
	loaded fileStamp
	shows  []namecache.Show
}

var _ namecache.Catalog = (*File)(nil)

// NewFile constructs a catalog for path. An empty path yields an empty catalog.
func NewFile(path string, logger *slog.Logger) *File {
	return &File{
		path:   strings.TrimSpace(path),
		logger: logging.NewComponentLogger(logger, "showcatalog"),
	}
}

// Shows returns every valid show in file order.
func (f *File) Shows(ctx context.Context) ([]namecache.Show, error) {
	if err := f.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]namecache.Show(nil), f.shows...), nil
}

// Show returns the catalogued show with the given id.
func (f *File) Show(ctx context.Context, id int64) (namecache.Show, bool, error) {
	if err := f.ensureLoaded(ctx); err != nil {
		return namecache.Show{}, false, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, show := range f.shows {
		if show.ID == id {
			return show, true, nil
		}
	}
	return namecache.Show{}, false, nil
}

type fileStamp struct {
	modTime time.Time
	size    int64
}

func (s fileStamp) matches(info os.FileInfo) bool {
	return !s.modTime.IsZero() && s.modTime.Equal(info.ModTime()) && s.size == info.Size()
}

func (f *File) ensureLoaded(ctx context.Context) error {
	if f == nil || f.path == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.mu.Lock()
			f.shows = nil
			f.loaded = fileStamp{}
			f.mu.Unlock()
			return nil
		}
		return fmt.Errorf("stat show catalog: %w", err)
	}

	f.mu.RLock()
	unchanged := f.loaded.matches(info)
	f.mu.RUnlock()
	if unchanged {
		return nil
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("read show catalog: %w", err)
	}
	shows, skipped, err := Parse(data)
	if err != nil {
		return fmt.Errorf("parse show catalog %s: %w", f.path, err)
	}
	for _, s := range skipped {
		logging.WarnWithContext(f.logger, "skipping invalid catalog entry", "catalog_entry_invalid",
			logging.Int64(logging.FieldShowID, s.ID),
			logging.String("show", s.Name),
			logging.String(logging.FieldErrorHint, "shows need a positive id and a non-empty name"),
			logging.String(logging.FieldImpact, "names for this show will not resolve"))
	}

	f.mu.Lock()
	f.shows = shows
	f.loaded = fileStamp{modTime: info.ModTime(), size: info.Size()}
	f.mu.Unlock()
	f.logger.Info("loaded show catalog",
		logging.String("path", f.path),
		logging.Int("shows", len(shows)),
		logging.Int("skipped", len(skipped)))
	return nil
}

// Parse decodes a catalog document, returning the valid shows and the entries
// that were skipped for a non-positive id or blank name. Unknown fields are an
// error.
func Parse(data []byte) (shows, skipped []namecache.Show, err error) {
	var file catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("parsing YAML: %w", err)
	}

	for _, entry := range file.Shows {
		show := namecache.Show{ID: entry.ID, Name: strings.TrimSpace(entry.Name)}
		if show.ID <= 0 || show.Name == "" {
			skipped = append(skipped, show)
			continue
		}
		shows = append(shows, show)
	}
	return shows, skipped, nil
}

// Package exceptions loads scene exceptions: the alternate names a show is
// released under, optionally scoped to one season.
package exceptions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"scenecache/internal/logging"
)

// AllSeasons is the season value for aliases that apply to the whole show.
const AllSeasons = -1

// Exception lists alternate names for one show and season.
type Exception struct {
	ShowID int64    `json:"show_id"`
	Season int      `json:"season"`
	Names  []string `json:"names"`
}

type key struct {
	show   int64
	season int
}

// File is an exceptions provider backed by a JSON file. It rereads the file on
// Refresh whenever its modification time or size changes.
type File struct {
	path   string
	logger *slog.Logger

	mu      sync.RWMutex
	loaded  fileStamp
	names   map[key][]string
	seasons map[int64][]int
}

// NewFile constructs a provider for path. An empty path yields a provider
// that never has exceptions.
func NewFile(path string, logger *slog.Logger) *File {
	return &File{
		path:   strings.TrimSpace(path),
		logger: logging.NewComponentLogger(logger, "exceptions"),
	}
}

// Refresh reloads the file if it changed since the last load. A missing file
// clears all exceptions.
func (f *File) Refresh(ctx context.Context) error {
	if f == nil || f.path == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.replace(nil, fileStamp{})
			return nil
		}
		return fmt.Errorf("stat scene exceptions: %w", err)
	}

	f.mu.RLock()
	unchanged := f.loaded.matches(info)
	f.mu.RUnlock()
	if unchanged {
		return nil
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("read scene exceptions: %w", err)
	}
	entries, err := Parse(data)
	if err != nil {
		return fmt.Errorf("parse scene exceptions %s: %w", f.path, err)
	}

	f.replace(entries, stampOf(info))
	f.logger.Info("loaded scene exceptions",
		logging.String("path", f.path),
		logging.Int("count", len(entries)))
	return nil
}

// Names returns the exception names for show and season. The slice is a copy.
func (f *File) Names(showID int64, season int) []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := f.names[key{showID, season}]
	if len(names) == 0 {
		return nil
	}
	return append([]string(nil), names...)
}

// Seasons returns, in ascending order, the seasons of show that have
// season-scoped exceptions.
func (f *File) Seasons(showID int64) []int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	seasons := f.seasons[showID]
	if len(seasons) == 0 {
		return nil
	}
	return append([]int(nil), seasons...)
}

// fileStamp identifies one version of the file. Editors that preserve the
// modification time still change the size on most edits.
type fileStamp struct {
	modTime time.Time
	size    int64
}

func stampOf(info os.FileInfo) fileStamp {
	return fileStamp{modTime: info.ModTime(), size: info.Size()}
}

func (s fileStamp) matches(info os.FileInfo) bool {
	return !s.modTime.IsZero() && s.modTime.Equal(info.ModTime()) && s.size == info.Size()
}

func (f *File) replace(entries []Exception, stamp fileStamp) {
	names := make(map[key][]string)
	seen := make(map[key]map[string]struct{})
	for _, entry := range entries {
		k := key{entry.ShowID, entry.Season}
		if seen[k] == nil {
			seen[k] = make(map[string]struct{})
		}
		for _, name := range entry.Names {
			if _, dup := seen[k][name]; dup {
				continue
			}
			seen[k][name] = struct{}{}
			names[k] = append(names[k], name)
		}
	}

	seasons := make(map[int64][]int)
	for k := range names {
		if k.season != AllSeasons {
			seasons[k.show] = append(seasons[k.show], k.season)
		}
	}
	for show := range seasons {
		sort.Ints(seasons[show])
	}

	f.mu.Lock()
	f.names = names
	f.seasons = seasons
	f.loaded = stamp
	f.mu.Unlock()
}

// Parse decodes an exceptions document. Both {"exceptions": [...]} and a bare
// array are accepted. Names are trimmed and blank names dropped; entries for
// non-positive show ids or seasons below -1 are rejected.
func Parse(data []byte) ([]Exception, error) {
	data = bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF"))
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Exception
	if data[0] == '{' {
		var wrapper struct {
			Exceptions []Exception `json:"exceptions"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, err
		}
		entries = wrapper.Exceptions
	} else if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	out := make([]Exception, 0, len(entries))
	for i, entry := range entries {
		if entry.ShowID <= 0 {
			return nil, fmt.Errorf("entry %d: show_id must be positive, got %d", i, entry.ShowID)
		}
		if entry.Season < AllSeasons {
			return nil, fmt.Errorf("entry %d: season must be -1 or greater, got %d", i, entry.Season)
		}
		cleaned := make([]string, 0, len(entry.Names))
		for _, name := range entry.Names {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		entry.Names = cleaned
		out = append(out, entry)
	}
	return out, nil
}

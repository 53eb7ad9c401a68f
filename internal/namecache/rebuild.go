package namecache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"scenecache/internal/logging"
)

var tracer = otel.Tracer("scenecache/internal/namecache")

const (
	scopeFull = "full"
	scopeShow = "show"
)

// Rebuild recomputes the cache from the store, the show catalog, and the
// scene exceptions. Unresolved entries are purged first. Stored rows are
// loaded before catalog names, and in both passes the first name seen wins.
//
// Rebuilds are serialized; a second caller waits and then repeats the work.
// A failed rebuild leaves the cache in whatever partial state it reached.
func (c *Cache) Rebuild(ctx context.Context) error {
	return c.rebuild(ctx, nil)
}

// RebuildShow re-derives the names of a single show without reloading the
// store. Entries for other shows are left untouched.
func (c *Cache) RebuildShow(ctx context.Context, show Show) error {
	if show.ID <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, show.ID)
	}
	return c.rebuild(ctx, &show)
}

func (c *Cache) rebuild(ctx context.Context, target *Show) (err error) {
	c.rebuildMu.Lock()
	defer c.rebuildMu.Unlock()

	scope := scopeFull
	if target != nil {
		scope = scopeShow
	}
	rebuildID := uuid.NewString()
	logger := logging.WithContext(ctx, c.logger).With(logging.String(logging.FieldRebuildID, rebuildID))

	ctx, span := tracer.Start(ctx, "namecache.Rebuild", trace.WithAttributes(
		attribute.String("scenecache.rebuild.scope", scope),
		attribute.String("scenecache.rebuild.id", rebuildID),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		size := c.Count()
		c.metrics.observeRebuild(scope, err, time.Since(start), size)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logging.ErrorWithContext(logger, "name cache rebuild failed", "rebuild_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "retry the rebuild; lookups may miss until it succeeds"))
			return
		}
		span.SetAttributes(attribute.Int("scenecache.entries", size))
		logger.Debug("internal name cache rebuilt",
			logging.Int("entries", size),
			logging.Duration("elapsed", time.Since(start)))
	}()

	if err := c.PurgeUnresolved(ctx); err != nil {
		return err
	}
	if err := c.exceptions.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh scene exceptions: %w", err)
	}

	if target != nil {
		logger.Info("building internal name cache for show",
			logging.Int64(logging.FieldShowID, target.ID),
			logging.String("show", target.Name))
		c.addShowNames(*target)
		return nil
	}

	logger.Info("building internal name cache for all shows")
	return c.loadSources(ctx, logger)
}

// Load fills the cache from the store, the show catalog, and the scene
// exceptions. Unlike Rebuild it neither purges unresolved names nor touches
// the store, so a short-lived reader can share the table with a running
// server. Load and Rebuild are serialized with each other.
func (c *Cache) Load(ctx context.Context) (err error) {
	c.rebuildMu.Lock()
	defer c.rebuildMu.Unlock()

	ctx, span := tracer.Start(ctx, "namecache.Load")
	defer span.End()
	logger := logging.WithContext(ctx, c.logger)

	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return
		}
		c.metrics.setEntries(c.Count())
	}()

	if err := c.exceptions.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh scene exceptions: %w", err)
	}
	return c.loadSources(ctx, logger)
}

// loadSources applies stored rows and then every catalogued show's names,
// first seen wins. Memory only.
func (c *Cache) loadSources(ctx context.Context, logger *slog.Logger) error {
	rows, err := c.store.Rows(ctx)
	if err != nil {
		return fmt.Errorf("load scene names: %w", err)
	}
	loaded := 0
	for _, row := range rows {
		match, err := matchFromStored(row.IndexerID)
		if err != nil {
			return fmt.Errorf("load scene name %q: %w", row.Name, err)
		}
		if c.setIfAbsent(c.sanitize(row.Name), match) {
			loaded++
		}
	}

	shows, err := c.catalog.Shows(ctx)
	if err != nil {
		return fmt.Errorf("load show catalog: %w", err)
	}
	derived := 0
	for _, show := range shows {
		derived += c.addShowNames(show)
	}

	logger.Debug("name cache sources applied",
		logging.Int("stored_rows", len(rows)),
		logging.Int("loaded", loaded),
		logging.Int("shows", len(shows)),
		logging.Int("derived", derived))
	return nil
}

// addShowNames caches the canonical name and every scene exception of show,
// across the season-less aliases (season -1) and each season that has
// exceptions. Memory only; the store is not written. Returns how many names
// were added.
func (c *Cache) addShowNames(show Show) int {
	if show.ID <= 0 {
		logging.WarnWithContext(c.logger, "skipping show with invalid identifier", "invalid_show_id",
			logging.Int64(logging.FieldShowID, show.ID),
			logging.String("show", show.Name),
			logging.String(logging.FieldImpact, "names for this show will not resolve"))
		return 0
	}

	match := Resolved(show.ID)
	added := 0
	seasons := append([]int{-1}, c.exceptions.Seasons(show.ID)...)
	for _, season := range seasons {
		exceptionNames := c.exceptions.Names(show.ID, season)
		names := make([]string, 0, len(exceptionNames)+1)
		names = append(names, exceptionNames...)
		names = append(names, show.Name)
		for _, name := range names {
			if c.setIfAbsent(c.sanitize(name), match) {
				added++
			}
		}
	}
	return added
}

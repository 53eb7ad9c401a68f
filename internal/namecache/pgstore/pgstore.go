// Package pgstore provides a PostgreSQL implementation of namecache.Store for
// deployments that share one scene name table between several hosts.
package pgstore

import (
	"context"
	_ "embed"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"scenecache/internal/namecache"
)

var tracer = otel.Tracer("scenecache/internal/namecache/pgstore")

//go:embed schema.sql
var schema string

const upsertSQL = `INSERT INTO scene_names (indexer_id, name) VALUES ($1, $2)
	ON CONFLICT (name) DO UPDATE SET indexer_id = EXCLUDED.indexer_id, updated_at = now()`

// Store persists scene names in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

var _ namecache.Store = (*Store)(nil)

// New connects to PostgreSQL, applies the schema, and returns a ready Store.
// Every query is traced through otelpgx.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.ConnConfig.Tracer = otelpgx.NewTracer()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close shuts down the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func startSpan(ctx context.Context, name, operation string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", operation),
		attribute.String("db.collection.name", "scene_names"),
	))
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// Upsert inserts or replaces rows keyed by name in one transaction.
func (s *Store) Upsert(ctx context.Context, rows ...namecache.Row) error {
	if len(rows) == 0 {
		return nil
	}
	ctx, span := startSpan(ctx, "pgstore.Upsert", "UPSERT")
	defer span.End()
	span.SetAttributes(attribute.Int("db.operation.batch.size", len(rows)))

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fail(span, fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is harmless

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(upsertSQL, row.IndexerID, row.Name)
	}
	results := tx.SendBatch(ctx, batch)
	for _, row := range rows {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fail(span, fmt.Errorf("upsert scene name %q: %w", row.Name, err))
		}
	}
	if err := results.Close(); err != nil {
		return fail(span, fmt.Errorf("close batch: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return fail(span, fmt.Errorf("commit: %w", err))
	}
	return nil
}

// Rows returns every stored row ordered by name.
func (s *Store) Rows(ctx context.Context) ([]namecache.Row, error) {
	ctx, span := startSpan(ctx, "pgstore.Rows", "SELECT")
	defer span.End()

	rows, err := s.pool.Query(ctx, `SELECT indexer_id, name FROM scene_names ORDER BY name`)
	if err != nil {
		return nil, fail(span, fmt.Errorf("query scene names: %w", err))
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (namecache.Row, error) {
		var r namecache.Row
		err := row.Scan(&r.IndexerID, &r.Name)
		return r, err
	})
	if err != nil {
		return nil, fail(span, fmt.Errorf("scan scene names: %w", err))
	}
	span.SetAttributes(attribute.Int("db.response.returned_rows", len(out)))
	return out, nil
}

// DeleteByID removes every row with the given indexer id.
func (s *Store) DeleteByID(ctx context.Context, id int64) error {
	ctx, span := startSpan(ctx, "pgstore.DeleteByID", "DELETE")
	defer span.End()

	if _, err := s.pool.Exec(ctx, `DELETE FROM scene_names WHERE indexer_id = $1`, id); err != nil {
		return fail(span, fmt.Errorf("delete scene names: %w", err))
	}
	return nil
}

package pgstore_test

import (
	"context"
	"os"
	"testing"

	"scenecache/internal/namecache"
	"scenecache/internal/namecache/pgstore"
)

func openStore(t *testing.T) *pgstore.Store {
	t.Helper()
	dsn := os.Getenv("SCENECACHE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("SCENECACHE_TEST_DATABASE_URL not set, skipping integration test")
	}
	ctx := context.Background()
	s, err := pgstore.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pgstore.New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func rowsByName(t *testing.T, s *pgstore.Store) map[string]int64 {
	t.Helper()
	rows, err := s.Rows(context.Background())
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Name] = row.IndexerID
	}
	return out
}

func TestUpsertReplacesByName(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if err := s.Upsert(ctx, namecache.Row{IndexerID: 1, Name: "pgstore test upsert"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.Upsert(ctx, namecache.Row{IndexerID: 2, Name: "pgstore test upsert"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if got := rowsByName(t, s)["pgstore test upsert"]; got != 2 {
		t.Fatalf("indexer_id = %d, want 2", got)
	}
	if err := s.DeleteByID(ctx, 2); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
}

func TestDeleteByIDRemovesUnresolved(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if err := s.Upsert(ctx,
		namecache.Row{IndexerID: 0, Name: "pgstore test unresolved"},
		namecache.Row{IndexerID: 991, Name: "pgstore test resolved"},
	); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.DeleteByID(ctx, 0); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}

	rows := rowsByName(t, s)
	if _, ok := rows["pgstore test unresolved"]; ok {
		t.Fatal("unresolved row survived delete")
	}
	if rows["pgstore test resolved"] != 991 {
		t.Fatal("resolved row was removed")
	}
	_ = s.DeleteByID(ctx, 991)
}

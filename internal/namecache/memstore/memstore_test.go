package memstore

import (
	"context"
	"testing"

	"scenecache/internal/namecache"
)

func TestStoreUpsertRowsDelete(t *testing.T) {
	ctx := context.Background()
	s := New(
		namecache.Row{IndexerID: 1, Name: "b"},
		namecache.Row{IndexerID: 0, Name: "a"},
	)
	if err := s.Upsert(ctx, namecache.Row{IndexerID: 3, Name: "b"}, namecache.Row{IndexerID: 0, Name: "c"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	rows, _ := s.Rows(ctx)
	want := []namecache.Row{{IndexerID: 3, Name: "b"}, {IndexerID: 0, Name: "a"}, {IndexerID: 0, Name: "c"}}
	if len(rows) != len(want) {
		t.Fatalf("rows = %v, want %v", rows, want)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("rows[%d] = %v, want %v", i, rows[i], want[i])
		}
	}

	if err := s.DeleteByID(ctx, 0); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	rows, _ = s.Rows(ctx)
	if len(rows) != 1 || rows[0].Name != "b" {
		t.Fatalf("rows after delete = %v", rows)
	}
}

func TestZeroValueStore(t *testing.T) {
	var s Store
	ctx := context.Background()
	if err := s.DeleteByID(ctx, 0); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if err := s.Upsert(ctx, namecache.Row{IndexerID: 1, Name: "x"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	rows, _ := s.Rows(ctx)
	if len(rows) != 1 {
		t.Fatalf("rows = %v", rows)
	}
}

// Stored rows survive a rebuild while unresolved names do not.
func TestCacheScenarioWithMemstore(t *testing.T) {
	ctx := context.Background()
	store := New(namecache.Row{IndexerID: 7, Name: "legacy-name"})
	cache, err := namecache.New(namecache.Options{Store: store})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := cache.AddUnresolved(ctx, "Unmatched Release"); err != nil {
		t.Fatalf("AddUnresolved: %v", err)
	}
	if err := cache.Rebuild(ctx); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	if _, ok := cache.Lookup("Unmatched Release"); ok {
		t.Fatal("unresolved name survived rebuild")
	}
	match, ok := cache.Lookup("legacy-name")
	if id, _ := match.ID(); !ok || id != 7 {
		t.Fatalf("legacy-name = (%v, %v), want 7", match, ok)
	}
}

package exceptions

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestParseAcceptsWrapperAndArray(t *testing.T) {
	wrapped := []byte("\xEF\xBB\xBF{\"exceptions\":[{\"show_id\":42,\"season\":-1,\"names\":[\" Show Alt Name \",\"\"]}]}")
	entries, err := Parse(wrapped)
	if err != nil {
		t.Fatalf("Parse wrapper: %v", err)
	}
	if len(entries) != 1 || !reflect.DeepEqual(entries[0].Names, []string{"Show Alt Name"}) {
		t.Fatalf("entries = %+v", entries)
	}

	bare := []byte(`[{"show_id":5,"season":3,"names":["Doctor Who 2005"]}]`)
	entries, err = Parse(bare)
	if err != nil {
		t.Fatalf("Parse array: %v", err)
	}
	if len(entries) != 1 || entries[0].Season != 3 {
		t.Fatalf("entries = %+v", entries)
	}

	if entries, err := Parse([]byte("  \n")); err != nil || entries != nil {
		t.Fatalf("blank document = (%v, %v)", entries, err)
	}
}

func TestParseRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"zero show":  `[{"show_id":0,"season":-1,"names":["x"]}]`,
		"bad season": `[{"show_id":1,"season":-2,"names":["x"]}]`,
		"bad json":   `{"exceptions":`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func writeExceptions(t *testing.T, path, doc string, mod time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
}

func TestFileNamesAndSeasons(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exceptions.json")
	writeExceptions(t, path, `{"exceptions":[
		{"show_id":42,"season":-1,"names":["Show Alt Name","Show Alt Name"]},
		{"show_id":42,"season":-1,"names":["Another Alias","Show Alt Name"]},
		{"show_id":42,"season":4,"names":["Show S4"]},
		{"show_id":42,"season":2,"names":["Show S2"]}
	]}`, time.Now().Add(-time.Hour))

	f := NewFile(path, nil)
	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if got := f.Names(42, AllSeasons); !reflect.DeepEqual(got, []string{"Show Alt Name", "Another Alias"}) {
		t.Fatalf("Names(42, -1) = %v", got)
	}
	if got := f.Seasons(42); !reflect.DeepEqual(got, []int{2, 4}) {
		t.Fatalf("Seasons(42) = %v", got)
	}
	if got := f.Names(7, AllSeasons); got != nil {
		t.Fatalf("unknown show names = %v", got)
	}
}

func TestFileReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exceptions.json")
	base := time.Now().Add(-time.Hour)
	writeExceptions(t, path, `[{"show_id":1,"season":-1,"names":["First"]}]`, base)

	f := NewFile(path, nil)
	ctx := context.Background()
	if err := f.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	writeExceptions(t, path, `[{"show_id":1,"season":-1,"names":["Second"]}]`, base.Add(time.Minute))
	if err := f.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got := f.Names(1, AllSeasons); !reflect.DeepEqual(got, []string{"Second"}) {
		t.Fatalf("after reload Names = %v", got)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := f.Refresh(ctx); err != nil {
		t.Fatalf("Refresh missing file: %v", err)
	}
	if got := f.Names(1, AllSeasons); got != nil {
		t.Fatalf("missing file should clear names, got %v", got)
	}
}

func TestFileReloadsWhenOnlySizeChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exceptions.json")
	mod := time.Now().Add(-time.Hour).Truncate(time.Second)
	writeExceptions(t, path, `[{"show_id":1,"season":-1,"names":["First"]}]`, mod)

	f := NewFile(path, nil)
	ctx := context.Background()
	if err := f.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	writeExceptions(t, path, `[{"show_id":1,"season":-1,"names":["Second"]}]`, mod)
	if err := f.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got := f.Names(1, AllSeasons); !reflect.DeepEqual(got, []string{"Second"}) {
		t.Fatalf("Names after same-mtime rewrite = %v", got)
	}
}

func TestFileRefreshReportsParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exceptions.json")
	writeExceptions(t, path, `{"exceptions": [`, time.Now())
	if err := NewFile(path, nil).Refresh(context.Background()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEmptyPathProvider(t *testing.T) {
	f := NewFile("  ", nil)
	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if f.Names(1, AllSeasons) != nil || f.Seasons(1) != nil {
		t.Fatal("empty provider returned data")
	}
}

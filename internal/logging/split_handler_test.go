package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestSplitHandlerWritesBothSides(t *testing.T) {
	var console, file bytes.Buffer
	consoleLevel := new(slog.LevelVar)
	consoleLevel.Set(slog.LevelWarn)
	fileLevel := new(slog.LevelVar)

	handler := newSplitHandler(
		newPrettyHandler(&console, consoleLevel, false),
		newJSONHandler(&file, fileLevel, false),
	)
	logger := slog.New(handler).With(String(FieldRebuildID, "r-1"))

	logger.Info("rebuild finished", Int("entries", 4))
	logger.Warn("show skipped", Int64(FieldShowID, 0))

	if strings.Contains(console.String(), "rebuild finished") {
		t.Fatalf("info record should be filtered from console: %q", console.String())
	}
	if !strings.Contains(console.String(), "WARN show skipped") {
		t.Fatalf("expected warning on console, got %q", console.String())
	}

	lines := strings.Split(strings.TrimSpace(file.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 file lines, got %d: %q", len(lines), file.String())
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record[FieldRebuildID] != "r-1" || record["entries"] != float64(4) {
		t.Fatalf("unexpected record %v", record)
	}
}

func TestNewSplitHandlerCollapsesNil(t *testing.T) {
	only := newPrettyHandler(&bytes.Buffer{}, new(slog.LevelVar), false)
	if got := newSplitHandler(only, nil); got != only {
		t.Fatal("expected console handler when file side is nil")
	}
	if got := newSplitHandler(nil, only); got != only {
		t.Fatal("expected file handler when console side is nil")
	}
	if _, ok := newSplitHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected noop handler")
	}
	if newSplitHandler(nil, nil).Enabled(context.Background(), slog.LevelError) {
		t.Fatal("noop handler should be disabled")
	}
}

package logs

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"scenecache/internal/logging"
)

// Record is one decoded JSON log line.
type Record struct {
	Time      string
	Level     slog.Level
	Message   string
	Component string
	Fields    map[string]any
}

var reservedKeys = map[string]struct{}{
	"ts": {}, "level": {}, "msg": {}, "source": {}, logging.FieldComponent: {},
}

// ParseRecord decodes a JSON log line. Lines that are not JSON objects, such
// as console output redirected into the file, report false.
func ParseRecord(line string) (Record, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Record{}, false
	}
	rec := Record{
		Time:      stringField(raw, "ts"),
		Message:   stringField(raw, "msg"),
		Component: stringField(raw, logging.FieldComponent),
		Fields:    make(map[string]any, len(raw)),
	}
	if err := rec.Level.UnmarshalText([]byte(stringField(raw, "level"))); err != nil {
		rec.Level = slog.LevelInfo
	}
	for key, value := range raw {
		if _, ok := reservedKeys[key]; !ok {
			rec.Fields[key] = value
		}
	}
	return rec, true
}

// Field returns a field rendered as a string, or "" when absent.
func (r Record) Field(key string) string {
	value, ok := r.Fields[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// String renders the record on one line in the console layout.
func (r Record) String() string {
	var b strings.Builder
	b.WriteString(r.Time)
	b.WriteByte(' ')
	b.WriteString(r.Level.String())
	b.WriteByte(' ')
	if r.Component != "" {
		b.WriteString(r.Component)
		b.WriteString(": ")
	}
	b.WriteString(r.Message)

	keys := make([]string, 0, len(r.Fields))
	for key := range r.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := r.Field(key)
		if strings.ContainsAny(value, " =\"") || value == "" {
			value = fmt.Sprintf("%q", value)
		}
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(value)
	}
	return b.String()
}

// Filter selects records. Zero-valued fields match everything.
type Filter struct {
	MinLevel     slog.Level
	Component    string
	RebuildID    string
	InvocationID string
}

// Match reports whether rec passes every populated criterion.
func (f Filter) Match(rec Record) bool {
	if rec.Level < f.MinLevel {
		return false
	}
	if f.Component != "" && !strings.EqualFold(rec.Component, f.Component) {
		return false
	}
	if f.RebuildID != "" && rec.Field(logging.FieldRebuildID) != f.RebuildID {
		return false
	}
	if f.InvocationID != "" && rec.Field(logging.FieldInvocationID) != f.InvocationID {
		return false
	}
	return true
}

func stringField(raw map[string]any, key string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return ""
}

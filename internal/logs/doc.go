// Package logs reads the shared scenecache.log written by every invocation.
//
// Last returns the newest lines with bounded memory, Follow polls for lines
// appended after an offset, and Record decodes one JSON line so the CLI can
// filter by level, component, rebuild_id, or invocation_id.
package logs

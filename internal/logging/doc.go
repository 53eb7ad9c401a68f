// Package logging assembles the slog loggers used across scenecache.
//
// Every invocation logs to stderr in the configured console or JSON format.
// When a log directory is set, records are also appended as JSON to
// scenecache.log with an invocation_id, so the CLI and a running server can
// share one file. WarnWithContext and ErrorWithContext stamp event_type and
// error_hint fields; WithContext carries HTTP request correlation ids.
package logging

// Package api exposes the scene name cache over HTTP.
//
// Routes live under /api/v1 and speak JSON with snake_case keys. Unresolved
// names are reported with "resolved": false and a null indexer_id. /healthz
// reports the entry count and /metrics serves the Prometheus registry the
// server was built with.
//
// Handlers call the cache directly. A rebuild request blocks until the rebuild
// finishes and then answers 202; concurrent rebuild requests queue behind the
// cache's rebuild lock.
package api

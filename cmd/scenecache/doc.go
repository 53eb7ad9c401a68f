// Command scenecache manages the scene name cache: it looks names up, records
// new ones, rebuilds the cache from the show catalog and scene exceptions, and
// serves the HTTP API.
//
// Every command reads the TOML configuration (see `scenecache config init`),
// opens the configured backend, and exits. `lookup`, `add`, `list` and `flush`
// load the stored rows, catalog and exceptions first without purging, so they
// can run next to `serve`. Only `rebuild` and `purge` drop unresolved names. `check`
// reports whether directories, sources, and the store are usable, and `logs`
// reads the JSON log shared by every invocation.
package main

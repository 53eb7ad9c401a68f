// Package preflight reports whether a scenecache installation is ready to
// rebuild and serve.
//
// RunAll checks the configured directories, parses the show catalog and scene
// exception files, and reads the cache store. CheckServer queries a running
// `scenecache serve` through its /healthz endpoint. The CLI "check" command
// renders the results; a failed check never aborts the remaining ones.
package preflight

// Package config loads, normalizes, and validates scenecache configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SCENECACHE_DATABASE_URL. The Config type centralizes every knob the CLI and
// the serve command need so the cache backend, rebuild sources, and logging
// are discovered in one pass.
package config

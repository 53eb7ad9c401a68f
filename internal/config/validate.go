package config

import (
	"errors"
	"fmt"
	"net"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case BackendSQLite:
		if c.Cache.DatabasePath == "" {
			return errors.New("cache.database_path must be set for the sqlite backend")
		}
	case BackendPostgres:
		if c.Cache.DatabaseURL == "" {
			return errors.New("cache.database_url is required for the postgres backend (or set SCENECACHE_DATABASE_URL)")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("cache.backend: unsupported value %q (want sqlite, postgres, or memory)", c.Cache.Backend)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if _, _, err := net.SplitHostPort(c.API.Bind); err != nil {
		return fmt.Errorf("api.bind: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

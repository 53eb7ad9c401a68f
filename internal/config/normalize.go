package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeCache(); err != nil {
		return err
	}
	if err := c.normalizeSources(); err != nil {
		return err
	}
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if c.API.Bind == "" {
		c.API.Bind = defaultAPIBind
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCache() error {
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if c.Cache.Backend == "" {
		c.Cache.Backend = BackendSQLite
	}

	c.Cache.DatabasePath = strings.TrimSpace(c.Cache.DatabasePath)
	if c.Cache.DatabasePath == "" {
		c.Cache.DatabasePath = filepath.Join(c.Paths.DataDir, defaultDatabaseName)
	}
	var err error
	if c.Cache.DatabasePath, err = expandPath(c.Cache.DatabasePath); err != nil {
		return fmt.Errorf("cache.database_path: %w", err)
	}

	if c.Cache.DatabaseURL == "" {
		if value, ok := os.LookupEnv("SCENECACHE_DATABASE_URL"); ok {
			c.Cache.DatabaseURL = value
		}
	}
	c.Cache.DatabaseURL = strings.TrimSpace(c.Cache.DatabaseURL)
	return nil
}

func (c *Config) normalizeSources() error {
	var err error
	if c.Sources.ShowsPath, err = expandPath(strings.TrimSpace(c.Sources.ShowsPath)); err != nil {
		return fmt.Errorf("sources.shows_path: %w", err)
	}
	if c.Sources.ExceptionsPath, err = expandPath(strings.TrimSpace(c.Sources.ExceptionsPath)); err != nil {
		return fmt.Errorf("sources.exceptions_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"scenecache/internal/config"
	"scenecache/internal/exceptions"
	"scenecache/internal/logging"
	"scenecache/internal/namecache"
	"scenecache/internal/namecache/memstore"
	"scenecache/internal/namecache/pgstore"
	"scenecache/internal/namecache/sqlitestore"
	"scenecache/internal/showcatalog"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// cacheSession is a cache wired to the configured backend and sources.
type cacheSession struct {
	cfg      *config.Config
	logger   *slog.Logger
	cache    *namecache.Cache
	catalog  *showcatalog.File
	registry *prometheus.Registry
	closeFn  func() error
}

func (s *cacheSession) Close() error {
	if s == nil || s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

// openCache builds a cache on the configured backend. The caller must Close
// the session.
func (c *commandContext) openCache(ctx context.Context) (*cacheSession, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	store, closeFn, err := openStore(ctx, cfg)
	if err != nil {
		logging.ErrorWithContext(logger, "open scene name store", "store_open_failed",
			logging.String("backend", cfg.Cache.Backend),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check [cache] in the configuration file"))
		return nil, err
	}

	registry := prometheus.NewRegistry()
	catalog := showcatalog.NewFile(cfg.Sources.ShowsPath, logger)
	cache, err := namecache.New(namecache.Options{
		Store:      store,
		Exceptions: exceptions.NewFile(cfg.Sources.ExceptionsPath, logger),
		Catalog:    catalog,
		Logger:     logger,
		Metrics:    namecache.NewMetrics(registry),
	})
	if err != nil {
		_ = closeFn()
		return nil, err
	}

	logger.Debug("scene name store opened", logging.String("backend", cfg.Cache.Backend))
	return &cacheSession{
		cfg:      cfg,
		logger:   logger,
		cache:    cache,
		catalog:  catalog,
		registry: registry,
		closeFn:  closeFn,
	}, nil
}

// withCache opens a session, runs fn, and closes the session.
func (c *commandContext) withCache(ctx context.Context, fn func(*cacheSession) error) error {
	session, err := c.openCache(ctx)
	if err != nil {
		return err
	}
	defer session.Close()
	return fn(session)
}

func openStore(ctx context.Context, cfg *config.Config) (namecache.Store, func() error, error) {
	switch cfg.Cache.Backend {
	case config.BackendSQLite:
		store, err := sqlitestore.Open(cfg.Cache.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, store.Close, nil
	case config.BackendPostgres:
		if cfg.Cache.DatabaseURL == "" {
			return nil, nil, errors.New("cache.database_url (or SCENECACHE_DATABASE_URL) is required for the postgres backend")
		}
		store, err := pgstore.New(ctx, cfg.Cache.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		return store, store.Close, nil
	case config.BackendMemory:
		store := memstore.New()
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache backend %q", cfg.Cache.Backend)
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

package testsupport

import (
	"path/filepath"
	"testing"

	"scenecache/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Sources point at files under the temp dir that do not exist until written
// with WithShows or WithExceptions.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Cache.DatabasePath = filepath.Join(base, "data", "cache.db")
	cfgVal.Sources.ShowsPath = filepath.Join(base, "shows.yaml")
	cfgVal.Sources.ExceptionsPath = filepath.Join(base, "exceptions.json")
	cfgVal.API.Bind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithBackend selects the cache backend.
func WithBackend(backend string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Backend = backend
	}
}

// WithShows writes a show catalog document to the configured shows path.
func WithShows(doc string) ConfigOption {
	return func(b *configBuilder) {
		WriteText(b.t, b.cfg.Sources.ShowsPath, doc)
	}
}

// WithExceptions writes a scene exceptions document to the configured path.
func WithExceptions(doc string) ConfigOption {
	return func(b *configBuilder) {
		WriteText(b.t, b.cfg.Sources.ExceptionsPath, doc)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}

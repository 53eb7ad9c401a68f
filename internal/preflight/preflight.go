package preflight

import (
	"context"
	"strings"

	"scenecache/internal/config"
	"scenecache/internal/namecache"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes every local check for cfg. store may be nil when it could
// not be opened; the caller reports that failure itself.
func RunAll(ctx context.Context, cfg *config.Config, store namecache.Store) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckDirectoryAccess("Data directory", cfg.Paths.DataDir)}
	if strings.TrimSpace(cfg.Paths.LogDir) != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	results = append(results,
		CheckShowCatalog(cfg.Sources.ShowsPath),
		CheckExceptions(cfg.Sources.ExceptionsPath),
	)
	if store != nil {
		results = append(results, CheckStore(ctx, store))
	}
	return results
}

// Failed counts the results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed {
			n++
		}
	}
	return n
}

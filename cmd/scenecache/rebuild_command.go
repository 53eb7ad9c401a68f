package main

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"scenecache/internal/api"
	"scenecache/internal/logging"
)

// errRebuildLocked is returned when another scenecache process holds the
// rebuild lock.
var errRebuildLocked = errors.New("another scenecache process is rebuilding or serving this cache")

func newRebuildCommand(ctx *commandContext) *cobra.Command {
	var showID int64
	var flush bool

	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the cache from the show catalog and scene exceptions",
		Long: "Purge unresolved names, refresh scene exceptions, and re-derive every catalogued name.\n\n" +
			"With --show only that show's names are derived and the scene name table is not reloaded.\n" +
			"Derived names are written to the table unless --flush=false.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showID < 0 {
				return fmt.Errorf("--show must be positive, got %d", showID)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			lock := flock.New(cfg.LockPath())
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire rebuild lock: %w", err)
			}
			if !ok {
				return errRebuildLocked
			}
			defer func() { _ = lock.Unlock() }()

			return ctx.withCache(cmd.Context(), func(s *cacheSession) error {
				resp := api.RebuildResponse{Scope: "full"}
				if showID == 0 {
					if err := s.cache.Rebuild(cmd.Context()); err != nil {
						return err
					}
				} else {
					show, found, err := s.catalog.Show(cmd.Context(), showID)
					if err != nil {
						return err
					}
					if !found {
						return fmt.Errorf("show %d is not in the catalog %s", showID, cfg.Sources.ShowsPath)
					}
					if err := s.cache.RebuildShow(cmd.Context(), show); err != nil {
						return err
					}
					resp.Scope = "show"
					resp.ShowID = show.ID
				}
				if flush {
					if err := s.cache.Flush(cmd.Context()); err != nil {
						return err
					}
				}
				resp.Entries = s.cache.Count()
				s.logger.Info("rebuild finished",
					logging.String("scope", resp.Scope),
					logging.Int("entries", resp.Entries),
					logging.Bool("flushed", flush))

				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rebuilt %s cache: %d names\n", resp.Scope, resp.Entries)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&showID, "show", 0, "Rebuild only the catalogued show with this identifier")
	cmd.Flags().BoolVar(&flush, "flush", true, "Write the rebuilt cache to the scene name table")
	return cmd
}

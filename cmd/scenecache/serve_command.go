package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"scenecache/internal/api"
	"scenecache/internal/logging"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Rebuild the cache and serve the HTTP API until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return runServe(signalCtx, ctx, bind)
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "Override the [api] bind address")
	return cmd
}

func runServe(runCtx context.Context, ctx *commandContext, bind string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if bind == "" {
		bind = cfg.API.Bind
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

	return ctx.withCache(runCtx, func(s *cacheSession) error {
		logger := s.logger
		if err := s.cache.Rebuild(runCtx); err != nil {
			return fmt.Errorf("initial rebuild: %w", err)
		}

		srv, err := api.New(api.Options{
			Cache:        s.cache,
			Shows:        s.catalog,
			Gatherer:     s.registry,
			Logger:       logger,
			SuggestLimit: suggestionLimit,
		})
		if err != nil {
			return err
		}
		if err := srv.Start(runCtx, bind); err != nil {
			return err
		}
		logger.Info("scenecache serving",
			logging.String("address", srv.Addr()),
			logging.String("backend", s.cfg.Cache.Backend),
			logging.Int("entries", s.cache.Count()),
			logging.String("lock", cfg.LockPath()))

		<-runCtx.Done()
		srv.Stop()

		flushCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.cache.Flush(flushCtx); err != nil {
			logging.ErrorWithContext(logger, "final flush failed", "flush_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "names learned since the last flush were not persisted"))
			return err
		}
		logger.Info("scenecache stopped", logging.Int("flushed", s.cache.Count()))
		return nil
	})
}

package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"scenecache/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		lines        int
		follow       bool
		level        string
		component    string
		rebuildID    string
		invocationID string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent entries from the shared log file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(cfg.Paths.LogDir) == "" {
				return fmt.Errorf("paths.log_dir is not configured")
			}
			path := filepath.Join(cfg.Paths.LogDir, "scenecache.log")

			filter := logs.Filter{
				MinLevel:     slog.LevelDebug,
				Component:    strings.TrimSpace(component),
				RebuildID:    strings.TrimSpace(rebuildID),
				InvocationID: strings.TrimSpace(invocationID),
			}
			if level != "" {
				if err := filter.MinLevel.UnmarshalText([]byte(level)); err != nil {
					return fmt.Errorf("invalid --level %q", level)
				}
			}

			out := cmd.OutOrStdout()
			emit := func(line string) error {
				rec, ok := logs.ParseRecord(line)
				if !ok || !filter.Match(rec) {
					return nil
				}
				if ctx.jsonOutput() {
					_, err := fmt.Fprintln(out, line)
					return err
				}
				_, err := fmt.Fprintln(out, rec.String())
				return err
			}

			recent, offset, err := logs.Last(path, lines)
			if err != nil {
				return err
			}
			for _, line := range recent {
				if err := emit(line); err != nil {
					return err
				}
			}
			if !follow {
				return nil
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return logs.Follow(runCtx, path, offset, 0, emit)
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to scan")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new entries")
	cmd.Flags().StringVar(&level, "level", "", "Minimum level (debug, info, warn, error)")
	cmd.Flags().StringVar(&component, "component", "", "Only entries from this component")
	cmd.Flags().StringVar(&rebuildID, "rebuild", "", "Only entries for this rebuild_id")
	cmd.Flags().StringVar(&invocationID, "invocation", "", "Only entries for this invocation_id")
	return cmd
}

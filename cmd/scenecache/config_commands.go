package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"scenecache/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the scenecache configuration",
		Long: "The configuration names the scene name table backend, the show catalog and\n" +
			"scene exception files that feed a rebuild, and the API bind address.",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool
	var printOnly bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write an annotated sample configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if printOnly {
				_, err := io.WriteString(out, config.Sample())
				return err
			}

			target, err := initTarget(targetPath)
			if err != nil {
				return err
			}
			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("check config path: %w", err)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Next: point [sources] at a show catalog (YAML) and scene exceptions (JSON),")
			fmt.Fprintf(out, "then run `scenecache --config %s config validate` and `scenecache rebuild`.\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing configuration file")
	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the sample to stdout instead of writing it")
	return cmd
}

func initTarget(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		target, err := config.DefaultConfigPath()
		if err != nil {
			return "", fmt.Errorf("determine default config path: %w", err)
		}
		return target, nil
	}
	target, err := config.ExpandPath(raw)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		target = filepath.Join(target, "config.toml")
	}
	return target, nil
}

type configReport struct {
	Path       string       `json:"path"`
	Exists     bool         `json:"exists"`
	Backend    string       `json:"backend"`
	Database   string       `json:"database"`
	Shows      sourceStatus `json:"shows"`
	Exceptions sourceStatus `json:"exceptions"`
	Bind       string       `json:"bind"`
	DataDir    string       `json:"data_dir"`
	LogDir     string       `json:"log_dir"`
	LockPath   string       `json:"lock_path"`
}

type sourceStatus struct {
	Path  string `json:"path"`
	State string `json:"state"`
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the configuration and report where scenecache will read and write",
		Long: "Validate parses the configuration, creates the data and log directories, and\n" +
			"reports the backend and source files. Missing source files are reported but are\n" +
			"not an error: a rebuild treats them as empty.",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			report := configReport{
				Path:       path,
				Exists:     exists,
				Backend:    cfg.Cache.Backend,
				Database:   databaseLocation(cfg),
				Shows:      statSource(cfg.Sources.ShowsPath),
				Exceptions: statSource(cfg.Sources.ExceptionsPath),
				Bind:       cfg.API.Bind,
				DataDir:    cfg.Paths.DataDir,
				LogDir:     cfg.Paths.LogDir,
				LockPath:   cfg.LockPath(),
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", report.Path)
			if !report.Exists {
				fmt.Fprintln(out, "Config file not found; using built-in defaults")
			}
			fmt.Fprintf(out, "Backend: %s\n", report.Backend)
			fmt.Fprintln(out, renderTable(
				[]string{"Setting", "Value", "State"},
				[][]string{
					{"Scene name table", report.Database, ""},
					{"Show catalog", report.Shows.Path, report.Shows.State},
					{"Scene exceptions", report.Exceptions.Path, report.Exceptions.State},
					{"API bind", report.Bind, ""},
					{"Data dir", report.DataDir, ""},
					{"Log dir", report.LogDir, ""},
					{"Rebuild lock", report.LockPath, ""},
				},
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
				shouldColorize(out),
			))
			if report.Shows.State == "missing" {
				fmt.Fprintln(out, "Warning: show catalog is missing; rebuilds will derive no show names")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func databaseLocation(cfg *config.Config) string {
	switch cfg.Cache.Backend {
	case config.BackendPostgres:
		u, err := url.Parse(cfg.Cache.DatabaseURL)
		if err != nil {
			return "postgres (unparseable URL)"
		}
		return u.Redacted()
	case config.BackendMemory:
		return "memory (not persisted)"
	default:
		return cfg.Cache.DatabasePath
	}
}

func statSource(path string) sourceStatus {
	status := sourceStatus{Path: path}
	switch _, err := os.Stat(path); {
	case path == "":
		status.State = "not configured"
	case err == nil:
		status.State = "present"
	case errors.Is(err, os.ErrNotExist):
		status.State = "missing"
	default:
		status.State = "unreadable"
	}
	return status
}

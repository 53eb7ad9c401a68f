package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"scenecache/internal/api"
	"scenecache/internal/namecache"
)

const suggestionLimit = 5

func newLookupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <name>",
		Short: "Resolve a show or release name to its show identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return ctx.withCache(cmd.Context(), func(s *cacheSession) error {
				if err := s.cache.Load(cmd.Context()); err != nil {
					return err
				}
				match, found := s.cache.Lookup(name)
				resp := api.NewLookupResponse(name, s.cache.Sanitize(name), match, found)
				if !found {
					resp.Suggestions = s.cache.Suggest(name, suggestionLimit)
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}

				out := cmd.OutOrStdout()
				switch {
				case !found:
					fmt.Fprintf(out, "%s: not found\n", resp.Sanitized)
					for _, suggestion := range resp.Suggestions {
						fmt.Fprintf(out, "  did you mean %q (%s)?\n", suggestion.Name, suggestion.Match)
					}
				case !match.IsResolved():
					fmt.Fprintf(out, "%s: unresolved\n", resp.Sanitized)
				default:
					fmt.Fprintf(out, "%s: %d\n", resp.Sanitized, *resp.IndexerID)
				}
				return nil
			})
		},
	}
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Record a name, resolved with --id or unresolved without it",
		Long: "Record a name in the cache and the scene name table.\n\n" +
			"An existing entry is never overwritten; an unresolved entry is only corrected by a rebuild.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if id < 0 {
				return fmt.Errorf("--id must be positive, got %d", id)
			}
			match := namecache.Unresolved
			if id > 0 {
				match = namecache.Resolved(id)
			}
			name := args[0]
			return ctx.withCache(cmd.Context(), func(s *cacheSession) error {
				if err := s.cache.Load(cmd.Context()); err != nil {
					return err
				}
				if err := s.cache.Add(cmd.Context(), name, match); err != nil {
					return err
				}
				stored, _ := s.cache.Lookup(name)
				if ctx.jsonOutput() {
					return writeJSON(cmd, namecache.Entry{Name: s.cache.Sanitize(name), Match: stored})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", s.cache.Sanitize(name), stored)
				if stored != match {
					fmt.Fprintln(cmd.OutOrStdout(), "Name was already cached; existing value kept")
				}
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "Show identifier (omit to record the name as unresolved)")
	return cmd
}

func newPurgeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete every unresolved name from the scene name table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCache(cmd.Context(), func(s *cacheSession) error {
				if err := s.cache.PurgeUnresolved(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Unresolved names purged")
				return nil
			})
		},
	}
}

func newFlushCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Load and write every cached name to the scene name table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCache(cmd.Context(), func(s *cacheSession) error {
				if err := s.cache.Load(cmd.Context()); err != nil {
					return err
				}
				if err := s.cache.Flush(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Flushed %d names\n", s.cache.Count())
				return nil
			})
		},
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached names",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCache(cmd.Context(), func(s *cacheSession) error {
				if err := s.cache.Load(cmd.Context()); err != nil {
					return err
				}
				entries := s.cache.Entries()
				if ctx.jsonOutput() {
					return writeJSON(cmd, api.EntriesResponse{Count: len(entries), Entries: entries})
				}

				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No cached names")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					id := "-"
					if value, ok := entry.Match.ID(); ok {
						id = strconv.FormatInt(value, 10)
					}
					rows = append(rows, []string{entry.Name, id})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Name", "Show ID"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
					shouldColorize(out),
				))
				fmt.Fprintf(out, "%d names\n", len(entries))
				return nil
			})
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scenecache/internal/preflight"
)

type checkReport struct {
	Checks []preflight.Result `json:"checks"`
	Failed int                `json:"failed"`
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var checkServer bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check directories, sources, and the cache store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var results []preflight.Result
			store, closeFn, err := openStore(cmd.Context(), cfg)
			if err != nil {
				results = preflight.RunAll(cmd.Context(), cfg, nil)
				results = append(results, preflight.Result{Name: "Cache store", Detail: err.Error()})
			} else {
				results = preflight.RunAll(cmd.Context(), cfg, store)
				_ = closeFn()
			}
			if checkServer {
				results = append(results, preflight.CheckServer(cmd.Context(), cfg.API.Bind))
			}

			failed := preflight.Failed(results)
			if ctx.jsonOutput() {
				if err := writeJSON(cmd, checkReport{Checks: results, Failed: failed}); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				rows := make([][]string, 0, len(results))
				for _, r := range results {
					status := "ok"
					if !r.Passed {
						status = "FAIL"
					}
					rows = append(rows, []string{r.Name, status, r.Detail})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Check", "Status", "Detail"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft},
					shouldColorize(out),
				))
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkServer, "server", false, "Also query a running server at api.bind")
	return cmd
}

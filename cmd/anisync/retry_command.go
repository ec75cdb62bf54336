package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"anisync/internal/syncer"
	"anisync/internal/titles"
)

func newRetryCommand(ctx *commandContext) *cobra.Command {
	var titlesFlag string

	cmd := &cobra.Command{
		Use:   "retry",
		Short: "Re-resolve titles that previously failed",
		Long: `Re-query AniList for every cached title whose last resolution was a
miss or an ambiguity. Recovered titles become cache matches and sync on
the next run; the rest keep their refreshed failure reason.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			filter, err := titles.LoadFilter(titlesFlag, cfg.Paths.TitlesFile)
			if err != nil {
				return err
			}

			var opts []syncer.Option
			callback, stopProgress := newProgressTracker(cmd.OutOrStdout(), "Retrying")
			if callback != nil {
				opts = append(opts, syncer.WithProgress(callback))
			}

			env, cleanup, err := ctx.buildSyncEnv(opts...)
			if err != nil {
				stopProgress()
				return err
			}
			defer cleanup()

			summary, err := env.syncer.Retry(cmd.Context(), filter)
			stopProgress()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if summary.Attempted == 0 {
				fmt.Fprintln(out, "Nothing to retry: every cached title is resolved")
				return nil
			}
			fmt.Fprintf(out, "Retried %d titles, recovered %d\n", summary.Attempted, summary.Recovered)
			printFailedTable(cmd, "Still unresolved", summary.Remaining)
			return nil
		},
	}

	cmd.Flags().StringVar(&titlesFlag, "titles", "", "Filter file restricting which titles are retried")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"anisync/internal/syncer"
	"anisync/internal/titles"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var titlesFlag string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify catalog pages still resolve on AniList",
		Long: `Walk the catalog and confirm each page title still resolves against
AniList. Resolutions go through the cache, so a repeated check only
re-queries unknown titles. Nothing is written to Notion.`,
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
			callback, stopProgress := newProgressTracker(cmd.OutOrStdout(), "Checking")
			if callback != nil {
				opts = append(opts, syncer.WithProgress(callback))
			}

			env, cleanup, err := ctx.buildSyncEnv(opts...)
			if err != nil {
				stopProgress()
				return err
			}
			defer cleanup()

			summary, err := env.syncer.Check(cmd.Context(), filter)
			stopProgress()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Checked %d pages: %d found, %d missing\n",
				summary.Checked, summary.Found, len(summary.Missing))
			printFailedTable(cmd, "Pages without a source match", summary.Missing)
			return nil
		},
	}

	cmd.Flags().StringVar(&titlesFlag, "titles", "", "Filter file restricting which pages are checked")
	return cmd
}

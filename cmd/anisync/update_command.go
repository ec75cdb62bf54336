package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"anisync/internal/syncer"
	"anisync/internal/titles"
)

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	var titlesFlag string
	var dryRun bool

	kindFlags := []struct {
		name  string
		kind  syncer.UpdateKind
		usage string
		value *bool
	}{
		{name: "studios", kind: syncer.UpdateStudios, usage: "Update the Studios property from AniList"},
		{name: "genres", kind: syncer.UpdateGenres, usage: "Merge genre relations from watched entries"},
		{name: "country", kind: syncer.UpdateCountry, usage: "Fill the Country property from the page icon"},
		{name: "romaji", kind: syncer.UpdateRomaji, usage: "Fill missing Romaji Title properties"},
		{name: "sources", kind: syncer.UpdateSources, usage: "Update the Source property from AniList"},
		{name: "images", kind: syncer.UpdateImages, usage: "Update cover images from AniList"},
	}
	for i := range kindFlags {
		kindFlags[i].value = new(bool)
	}

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Run field-update passes over existing catalog pages",
		Long: `Run one or more field-update passes over the pages already in the
catalog. Each pass only writes fields that would actually change, so
running the same pass twice in a row is a no-op. Without pass flags
every pass runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var kinds []syncer.UpdateKind
			for _, flag := range kindFlags {
				if *flag.value {
					kinds = append(kinds, flag.kind)
				}
			}

			filter, err := titles.LoadFilter(titlesFlag, cfg.Paths.TitlesFile)
			if err != nil {
				return err
			}

			var opts []syncer.Option
			callback, stopProgress := newProgressTracker(cmd.OutOrStdout(), "Updating")
			if callback != nil {
				opts = append(opts, syncer.WithProgress(callback))
			}

			env, cleanup, err := ctx.buildSyncEnv(opts...)
			if err != nil {
				stopProgress()
				return err
			}
			defer cleanup()

			summary, err := env.syncer.Update(cmd.Context(), syncer.UpdateOptions{
				Kinds:  kinds,
				Filter: filter,
				DryRun: dryRun,
			})
			stopProgress()
			if err != nil {
				return err
			}

			printUpdateSummary(cmd, summary)
			return nil
		},
	}

	for _, flag := range kindFlags {
		cmd.Flags().BoolVar(flag.value, flag.name, false, flag.usage)
	}
	cmd.Flags().StringVar(&titlesFlag, "titles", "", "Filter file restricting which titles are processed")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing to Notion")

	return cmd
}

func printUpdateSummary(cmd *cobra.Command, summary syncer.UpdateSummary) {
	out := cmd.OutOrStdout()
	if summary.DryRun {
		fmt.Fprintln(out, "Dry run: no changes were written")
	}
	fmt.Fprintf(out, "Update finished (run %s)\n", summary.RunID)

	rows := make([][]string, 0, len(summary.Results))
	for _, result := range summary.Results {
		rows = append(rows, []string{
			string(result.Kind),
			strconv.Itoa(result.Checked),
			strconv.Itoa(result.Changed),
			strconv.Itoa(len(result.Failed)),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Pass", "Checked", "Changed", "Failed"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	))

	for _, result := range summary.Results {
		printFailedTable(cmd, fmt.Sprintf("Failed during %s", result.Kind), result.Failed)
	}
}

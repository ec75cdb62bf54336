package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"anisync/internal/syncer"
	"anisync/internal/titles"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var inputFlag string
	var titlesFlag string
	var force bool
	var refresh bool
	var dryRun bool
	var interactive bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync the title list into the Notion catalog",
		Long: `Read the anime title list, resolve each entry against AniList, and
create the missing pages in the Notion catalog. Existing pages are left
alone unless --force is given. Resolution results are cached, so a
repeated run only re-queries titles that previously failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			inputPath := strings.TrimSpace(inputFlag)
			if inputPath == "" {
				inputPath = cfg.Paths.InputFile
			}
			entries, err := titles.ParseFile(inputPath)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No titles found in %s\n", inputPath)
				return nil
			}

			filter, err := titles.LoadFilter(titlesFlag, cfg.Paths.TitlesFile)
			if err != nil {
				return err
			}
			entries = filter.Apply(entries)
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Title filter matched nothing to sync")
				return nil
			}

			var opts []syncer.Option
			if interactive {
				if !isTerminal(os.Stdin) {
					return errors.New("--interactive requires a terminal")
				}
				opts = append(opts, syncer.WithChooser(newConsoleChooser(os.Stdin, cmd.OutOrStdout())))
			}
			callback, stopProgress := newProgressTracker(cmd.OutOrStdout(), "Syncing")
			if callback != nil {
				opts = append(opts, syncer.WithProgress(callback))
			}

			env, cleanup, err := ctx.buildSyncEnv(opts...)
			if err != nil {
				stopProgress()
				return err
			}
			defer cleanup()

			summary, err := env.syncer.Run(cmd.Context(), entries, syncer.RunOptions{
				Force:   force,
				DryRun:  dryRun,
				Refresh: refresh,
			})
			stopProgress()
			if err != nil {
				return err
			}

			printSyncSummary(cmd, summary)

			if len(summary.Failed) > 0 && !dryRun {
				if err := titles.WriteUnmatched(cfg.Paths.UnmatchedFile, summary.FailedInputs()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d unmatched titles to %s\n",
					len(summary.Failed), cfg.Paths.UnmatchedFile)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFlag, "input", "i", "", "Title list file (default: configured input_file)")
	cmd.Flags().StringVar(&titlesFlag, "titles", "", "Filter file restricting which titles are processed")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite catalog pages that already exist")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass cached resolutions and query AniList again")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve and report without writing to Notion")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Prompt to pick a candidate when a title is ambiguous")

	return cmd
}

func printSyncSummary(cmd *cobra.Command, summary syncer.Summary) {
	out := cmd.OutOrStdout()
	if summary.DryRun {
		fmt.Fprintln(out, "Dry run: no changes were written")
	}
	fmt.Fprintf(out, "Sync finished (run %s)\n", summary.RunID)
	fmt.Fprintln(out, renderTable(
		[]string{"Total", "Created", "Updated", "Skipped", "Failed"},
		[][]string{{
			strconv.Itoa(summary.Total),
			strconv.Itoa(summary.Created),
			strconv.Itoa(summary.Updated),
			strconv.Itoa(summary.Skipped),
			strconv.Itoa(len(summary.Failed)),
		}},
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight},
	))
	printFailedTable(cmd, "Unresolved titles", summary.Failed)
}

func printFailedTable(cmd *cobra.Command, heading string, failed []syncer.FailedTitle) {
	if len(failed) == 0 {
		return
	}
	out := cmd.OutOrStdout()
	rows := make([][]string, 0, len(failed))
	for _, f := range failed {
		rows = append(rows, []string{f.Title, f.Reason})
	}
	fmt.Fprintf(out, "%s:\n", heading)
	fmt.Fprintln(out, renderTable(
		[]string{"Title", "Reason"},
		rows,
		[]columnAlignment{alignLeft, alignLeft},
	))
}

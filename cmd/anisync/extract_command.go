package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"anisync/internal/vision"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var inputDir string
	var outputFile string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract anime titles from screenshots",
		Long: `Send every screenshot in the input directory to the configured vision
model and collect the anime titles it reads, one per line. The
deduplicated list is written to the output file, ready for anisync
sync. Unreadable or rejected images are reported and skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(cfg.Vision.APIKey) == "" {
				return fmt.Errorf("vision api key missing; set vision.api_key in the config or export ANISYNC_VISION_API_KEY")
			}

			logger, err := ctx.buildLogger(cfg)
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}

			client, err := vision.NewClient(
				cfg.Vision.APIKey,
				cfg.Vision.BaseURL,
				cfg.Vision.Model,
				cfg.Vision.Prompt,
				vision.WithHTTPClient(&http.Client{
					Timeout: time.Duration(cfg.Vision.TimeoutSeconds) * time.Second,
				}),
			)
			if err != nil {
				return fmt.Errorf("create vision client: %w", err)
			}

			dir := strings.TrimSpace(inputDir)
			if dir == "" {
				dir = cfg.Vision.InputDir
			}
			output := strings.TrimSpace(outputFile)
			if output == "" {
				output = cfg.Vision.OutputFile
			}

			extractor := vision.NewExtractor(client, logger)
			result, err := extractor.Run(cmd.Context(), dir, output, dryRun)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.Images == 0 {
				fmt.Fprintf(out, "No images found in %s\n", dir)
				return nil
			}
			fmt.Fprintf(out, "Processed %d images, extracted %d titles\n", result.Images, len(result.Titles))
			for _, failed := range result.Failed {
				fmt.Fprintf(out, "  failed: %s\n", failed)
			}
			if dryRun {
				for _, title := range result.Titles {
					fmt.Fprintf(out, "  %s\n", title)
				}
				fmt.Fprintln(out, "Dry run: title list not written")
				return nil
			}
			fmt.Fprintf(out, "Wrote title list to %s\n", result.Written)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputDir, "input-dir", "", "Screenshot directory (default: configured vision.input_dir)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Title list destination (default: configured vision.output_file)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print extracted titles without writing the list")

	return cmd
}

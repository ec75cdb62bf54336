package vision

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"anisync/internal/logging"
	"anisync/internal/titles"
)

// Extractor walks a screenshot directory and writes the deduplicated
// title list.
type Extractor struct {
	client *Client
	logger *slog.Logger
}

// Result reports an extraction run.
type Result struct {
	Images  int
	Titles  []string
	Failed  []string
	Written string
	DryRun  bool
}

// NewExtractor creates an Extractor.
func NewExtractor(client *Client, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Extractor{client: client, logger: logger}
}

var imageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".webp": {}, ".gif": {},
}

// ListImages returns the image files in dir, sorted by name.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read screenshot directory: %w", err)
	}
	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))]; ok {
			images = append(images, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(images)
	return images, nil
}

// Run extracts titles from every image in inputDir and writes the
// deduplicated list to outputFile. With dryRun the titles are collected
// but nothing is written. Per-image failures are recorded and skipped.
func (e *Extractor) Run(ctx context.Context, inputDir, outputFile string, dryRun bool) (Result, error) {
	result := Result{DryRun: dryRun}

	images, err := ListImages(inputDir)
	if err != nil {
		return result, err
	}
	result.Images = len(images)
	if len(images) == 0 {
		return result, nil
	}

	seen := make(map[string]struct{})
	for _, image := range images {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		data, err := os.ReadFile(image)
		if err != nil {
			result.Failed = append(result.Failed, filepath.Base(image))
			e.logger.Warn("unreadable image", logging.String("image", image), logging.Error(err))
			continue
		}
		extracted, err := e.client.ExtractTitles(ctx, filepath.Base(image), data)
		if err != nil {
			result.Failed = append(result.Failed, filepath.Base(image))
			e.logger.Warn("extraction failed", logging.String("image", image), logging.Error(err))
			continue
		}
		for _, title := range extracted {
			key := titles.Normalize(title)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			result.Titles = append(result.Titles, title)
		}
		e.logger.Info("image processed",
			logging.String("image", filepath.Base(image)),
			logging.Int("titles", len(extracted)))
	}

	if dryRun {
		return result, nil
	}
	if err := writeTitleList(outputFile, result.Titles); err != nil {
		return result, err
	}
	result.Written = outputFile
	return result, nil
}

func writeTitleList(path string, list []string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	var builder strings.Builder
	for _, title := range list {
		builder.WriteString(title)
		builder.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(builder.String()), 0o644); err != nil {
		return fmt.Errorf("write title list: %w", err)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meur/wishlist/internal/catalog"
	"github.com/meur/wishlist/internal/config"
	"github.com/meur/wishlist/internal/images"
	"github.com/meur/wishlist/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg, cfgErr := config.Load()
	var dataPath string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "fix_images",
		Short: "Point image_filename at the product images found on disk",
		Long: `Scans the images directory for files named <code>_<title>.<ext> and
rewrites image_filename in data.json for every item with a matching code.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return cfgErr
			}
			return run(cmd.Context(), cfg, dataPath, dryRun)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&dataPath, "data", "./public/data.json", "Path to data.json")
	flags.StringVar(&cfg.ImagesDir, "images", cfg.ImagesDir, "Product images directory")
	flags.BoolVar(&dryRun, "dry-run", false, "Report changes without writing data.json")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")

	return cmd
}

func run(ctx context.Context, cfg config.Config, dataPath string, dryRun bool) error {
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	items, err := (&catalog.FileSource{Path: dataPath}).Fetch(ctx)
	if err != nil {
		return err
	}

	idx, err := images.Scan(cfg.ImagesDir)
	if err != nil {
		return err
	}
	logger.Info("images indexed", zap.Int("codes", len(idx)), zap.String("dir", cfg.ImagesDir))

	fixed, report := images.Apply(items, idx)

	codes := make([]string, 0, len(report.Updated))
	for code := range report.Updated {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		logger.Debug("image updated", zap.String("code", code), zap.String("file", report.Updated[code]))
	}
	for _, code := range report.Missing {
		logger.Warn("no image found", zap.String("code", code))
	}

	fmt.Printf("Updated: %d items\n", len(report.Updated))
	fmt.Printf("Not found: %d items\n", len(report.Missing))

	if dryRun {
		return nil
	}
	data, err := images.Encode(fixed)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	if err := os.WriteFile(dataPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dataPath, err)
	}
	return nil
}

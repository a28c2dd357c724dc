package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meur/wishlist/internal/catalog"
	"github.com/meur/wishlist/internal/config"
	"github.com/meur/wishlist/internal/logging"
	"github.com/meur/wishlist/internal/storage"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg, cfgErr := config.Load()
	var prune, list bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import a catalog into the SQLite snapshot database",
		Long: `Loads the catalog from --source and stores it as a new import in the
SQLite database. The server reads the latest import with --source sqlite://<db>.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return cfgErr
			}
			if list {
				return listImports(cmd.Context(), cmd.OutOrStdout(), cfg.DBPath)
			}
			return run(cmd.Context(), cfg, prune)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	flags.StringVar(&cfg.Source, "source", cfg.Source, "Catalog source to import")
	flags.BoolVar(&prune, "prune", false, "Delete older imports after a successful import")
	flags.BoolVar(&list, "list", false, "List the imports in the database instead of importing")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")

	return cmd
}

func run(ctx context.Context, cfg config.Config, prune bool) error {
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	source, err := catalog.OpenSource(ctx, cfg.Source, catalog.SourceOptions{
		Timeout: cfg.FetchTimeout,
		S3:      catalog.S3Config{Region: cfg.S3.Region, Endpoint: cfg.S3.Endpoint, PathStyle: cfg.S3.PathStyle},
	})
	if err != nil {
		return fmt.Errorf("open catalog source: %w", err)
	}
	if c, ok := source.(io.Closer); ok {
		defer c.Close()
	}

	cat := catalog.NewStore(source, logger)
	if err := cat.Load(ctx); err != nil {
		return err
	}

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	imp, err := db.ImportItems(ctx, source.String(), cat.Items())
	if err != nil {
		return fmt.Errorf("import items: %w", err)
	}
	logger.Info("catalog imported",
		zap.String("import_id", imp.ID),
		zap.String("db", cfg.DBPath),
		zap.Int("items", imp.ItemCount))

	if prune {
		removed, err := db.DeleteImportsBefore(ctx, imp.ID)
		if err != nil {
			return fmt.Errorf("prune imports: %w", err)
		}
		logger.Info("old imports pruned", zap.Int64("removed", removed))
	}
	return nil
}

// listImports prints every import in the database, newest first
func listImports(ctx context.Context, w io.Writer, dbPath string) error {
	db, err := storage.New(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	imports, err := db.GetImports(ctx)
	if err != nil {
		return fmt.Errorf("list imports: %w", err)
	}
	if len(imports) == 0 {
		fmt.Fprintln(w, "No imports found.")
		return nil
	}
	for _, imp := range imports {
		fmt.Fprintf(w, "%s  %s  %d items  %s\n",
			imp.ID, imp.CreatedAt.UTC().Format(time.RFC3339), imp.ItemCount, imp.Source)
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meur/wishlist/internal/api"
	"github.com/meur/wishlist/internal/catalog"
	"github.com/meur/wishlist/internal/config"
	"github.com/meur/wishlist/internal/logging"
	"github.com/meur/wishlist/internal/telemetry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg, cfgErr := config.Load()

	cmd := &cobra.Command{
		Use:   "wishlist-server",
		Short: "Serve the wishlist catalog API and frontend",
		Long: `Loads the catalog once from the configured source and serves derived
views of it under /api, next to the static frontend and product images.

Sources: http(s)://host/base/ (data.json appended), s3://bucket/key,
sqlite://path/to/wishlist.db, or a local data.json path.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return cfgErr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.Port, "port", cfg.Port, "Server port")
	flags.StringVar(&cfg.Source, "source", cfg.Source, "Catalog source (URL, s3://, sqlite:// or path)")
	flags.StringVar(&cfg.BasePath, "base-path", cfg.BasePath, "Base path the app is deployed under")
	flags.StringVar(&cfg.StaticDir, "static", cfg.StaticDir, "Frontend build directory")
	flags.StringVar(&cfg.ImagesDir, "images", cfg.ImagesDir, "Product images directory")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	flags.DurationVar(&cfg.FetchTimeout, "fetch-timeout", cfg.FetchTimeout, "Timeout for the catalog fetch (0 uses the transport default)")

	return cmd
}

func run(ctx context.Context, cfg config.Config) error {
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	shutdownTracing, err := telemetry.Setup(ctx, "wishlist", cfg.OTelEndpoint)
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
	}
	defer shutdownTracing(context.Background())

	source, err := catalog.OpenSource(ctx, cfg.Source, catalog.SourceOptions{
		Timeout: cfg.FetchTimeout,
		S3: catalog.S3Config{
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			PathStyle: cfg.S3.PathStyle,
		},
	})
	if err != nil {
		return fmt.Errorf("open catalog source: %w", err)
	}
	if c, ok := source.(io.Closer); ok {
		defer c.Close()
	}

	store := catalog.NewStore(source, logger)
	store.Start(ctx)

	handler := api.New(store, logger, api.Options{
		BasePath:       cfg.BasePath,
		StaticDir:      cfg.StaticDir,
		ImagesDir:      cfg.ImagesDir,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("wishlist server starting",
			zap.String("addr", srv.Addr),
			zap.String("source", source.String()),
			zap.String("base_path", cfg.BasePath))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

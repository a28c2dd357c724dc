package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meur/wishlist/internal/catalog"
	"github.com/meur/wishlist/internal/config"
	"github.com/meur/wishlist/internal/models"
	"github.com/meur/wishlist/internal/view"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("141"))
	rareStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("135"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg, cfgErr := config.Load()
	var filter, sort string
	var limit int

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Print the catalog filtered and sorted",
		Example: `  browse --filter rare --sort year
  browse --source https://example.com/wishlist/ --sort name`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return cfgErr
			}
			sel, err := models.ParseView(filter, sort)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), cfg, sel, limit)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.Source, "source", cfg.Source, "Catalog source (URL, s3://, sqlite:// or path)")
	flags.StringVar(&filter, "filter", string(models.FilterAll), "Filter: all, rare, popular, classic")
	flags.StringVar(&sort, "sort", string(models.SortCombined), "Sort: combined, popularity, rarity, year, name")
	flags.IntVar(&limit, "limit", 0, "Show at most this many items (0 shows all)")
	flags.DurationVar(&cfg.FetchTimeout, "fetch-timeout", cfg.FetchTimeout, "Timeout for the catalog fetch")

	return cmd
}

func run(ctx context.Context, out io.Writer, cfg config.Config, sel models.ViewSelection, limit int) error {
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

	store := catalog.NewStore(source, zap.NewNop())
	if err := store.Load(ctx); err != nil {
		fmt.Fprintln(out, "Failed to load collection")
		return err
	}

	items := store.Items()
	derived := view.Derive(items, sel)
	if len(derived) == 0 {
		fmt.Fprintln(out, "No items match your current filters.")
		return nil
	}

	shown := derived
	if limit > 0 && limit < len(shown) {
		shown = shown[:limit]
	}
	fmt.Fprintln(out, renderTable(shown))
	fmt.Fprintf(out, "Showing %d of %d\n", len(derived), len(items))
	return nil
}

func renderTable(items []models.Item) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.Code,
			item.Name,
			item.YearReleased,
			item.Creator,
			score(item.PopularityScore),
			score(item.RarityScore),
			score(item.CombinedScore),
			badges(item),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderHeader(true).
		BorderRow(false).
		Headers("Code", "Name", "Year", "Creator", "Pop", "Rare", "Score", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Inherit(cellStyle)
			}
			if row >= 0 && row < len(items) && items[row].IsRare() {
				return rareStyle.Inherit(cellStyle)
			}
			return cellStyle
		})

	return t.Render()
}

func score(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func badges(item models.Item) string {
	switch {
	case item.IsRare() && item.IsPopular():
		return "rare, popular"
	case item.IsRare():
		return "rare"
	case item.IsPopular():
		return "popular"
	}
	return ""
}

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meur/wishlist/internal/config"
	"github.com/meur/wishlist/internal/models"
)

const dataset = `[
  {"product_code": "T-1", "name": "Zig Zag", "year_released": "1985", "rarity_score": 9, "popularity_score": 3, "combined_score": 6},
  {"product_code": "T-2", "name": "apple Box", "year_released": "1995", "rarity_score": 2, "popularity_score": 9, "combined_score": 5.5}
]`

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(dataset), 0o644))
	return path
}

func TestRunPrintsDerivedView(t *testing.T) {
	var out bytes.Buffer
	cfg := config.Config{Source: writeDataset(t)}

	err := run(context.Background(), &out, cfg, models.ViewSelection{Filter: models.FilterAll, Sort: models.SortName}, 0)
	require.NoError(t, err)

	text := out.String()
	assert.Less(t, strings.Index(text, "apple Box"), strings.Index(text, "Zig Zag"))
	assert.Contains(t, text, "Showing 2 of 2")
}

func TestRunReportsEmptyResult(t *testing.T) {
	var out bytes.Buffer
	cfg := config.Config{Source: writeDataset(t)}

	err := run(context.Background(), &out, cfg, models.ViewSelection{Filter: models.FilterClassic, Sort: models.SortYear}, 0)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Showing 1 of 2")

	out.Reset()
	require.NoError(t, os.WriteFile(cfg.Source, []byte(`[]`), 0o644))
	err = run(context.Background(), &out, cfg, models.DefaultView(), 0)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No items match")
}

func TestRunLoadFailure(t *testing.T) {
	var out bytes.Buffer
	cfg := config.Config{Source: filepath.Join(t.TempDir(), "missing.json")}

	err := run(context.Background(), &out, cfg, models.DefaultView(), 0)
	assert.Error(t, err)
	assert.Contains(t, out.String(), "Failed to load collection")
}

func TestBadges(t *testing.T) {
	assert.Equal(t, "rare, popular", badges(models.Item{RarityScore: 8, PopularityScore: 8}))
	assert.Equal(t, "", badges(models.Item{}))
}

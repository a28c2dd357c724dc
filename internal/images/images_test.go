package images

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meur/wishlist/internal/models"
)

func TestIndexNamesFirstWins(t *testing.T) {
	idx := IndexNames([]string{
		"T-102_Lucifers_Lock_b.jpg",
		"T-102_Lucifers_Lock.jpg",
		"T-7_Ball_Vase.png",
		"logo.png",
	})
	assert.Equal(t, Index{
		"T-102": "T-102_Lucifers_Lock.jpg",
		"T-7":   "T-7_Ball_Vase.png",
	}, idx)
}

func TestScanSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "T-1_Hoop.jpg"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "T-2_folder"), 0o755))

	idx, err := Scan(dir)
	require.NoError(t, err)
	assert.Equal(t, Index{"T-1": "T-1_Hoop.jpg"}, idx)

	_, err = Scan(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestApplyLeavesInputAlone(t *testing.T) {
	items := []models.Item{
		{Code: "T-1", ImageFilename: "old.jpg"},
		{Code: "T-9", ImageFilename: "keep.jpg"},
	}
	out, report := Apply(items, Index{"T-1": "T-1_Hoop.jpg"})

	assert.Equal(t, "T-1_Hoop.jpg", out[0].ImageFilename)
	assert.Equal(t, "keep.jpg", out[1].ImageFilename)
	assert.Equal(t, "old.jpg", items[0].ImageFilename)
	assert.Equal(t, map[string]string{"T-1": "T-1_Hoop.jpg"}, report.Updated)
	assert.Equal(t, []string{"T-9"}, report.Missing)
}

func TestEncodeKeepsDatasetShape(t *testing.T) {
	data, err := Encode([]models.Item{{Code: "T-1", Name: "Hoop & Ring", Reviews: []string{}}})
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {")
	assert.Contains(t, string(data), "Hoop & Ring")

	var back []map[string]any
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "T-1", back[0]["product_code"])
}

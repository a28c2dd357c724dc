// Package images matches product images on disk to catalog items.
// Image files are named "<code>_<title>.<ext>", e.g. "T-102_Lucifers_Lock.jpg".
package images

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/meur/wishlist/internal/models"
)

// CodePrefix is the prefix every product image name starts with
const CodePrefix = "T-"

// Index maps product codes to image filenames
type Index map[string]string

// Scan builds an Index from the files in dir. When several files share a
// code the first in name order wins.
func Scan(dir string) (Index, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read images dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return IndexNames(names), nil
}

// IndexNames builds an Index from bare file names
func IndexNames(names []string) Index {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	idx := make(Index)
	for _, name := range sorted {
		if !strings.HasPrefix(name, CodePrefix) {
			continue
		}
		code, _, _ := strings.Cut(name, "_")
		if _, ok := idx[code]; !ok {
			idx[code] = name
		}
	}
	return idx
}

// Report summarises an Apply run
type Report struct {
	Updated map[string]string // code -> new filename
	Missing []string          // codes with no image on disk
}

// Apply returns a copy of items with image filenames taken from idx.
// Items without a match keep their current filename.
func Apply(items []models.Item, idx Index) ([]models.Item, Report) {
	out := make([]models.Item, len(items))
	report := Report{Updated: make(map[string]string)}
	for i, item := range items {
		if name, ok := idx[item.Code]; ok {
			item.ImageFilename = name
			report.Updated[item.Code] = name
		} else {
			report.Missing = append(report.Missing, item.Code)
		}
		out[i] = item
	}
	return out, report
}

// Encode writes items in the dataset layout (two-space indent)
func Encode(items []models.Item) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

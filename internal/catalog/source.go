package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/meur/wishlist/internal/models"
	"github.com/meur/wishlist/internal/storage"
)

// DataFile is the name of the dataset relative to the deployed base path
const DataFile = "data.json"

// maxPayload caps how much of a response body is read
const maxPayload = 32 << 20

// HTTPSource fetches data.json with a single GET
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// NewHTTPSource builds a source for rawURL. A URL ending in "/" is treated
// as the base path and gets data.json appended.
func NewHTTPSource(rawURL string, timeout time.Duration) *HTTPSource {
	if strings.HasSuffix(rawURL, "/") {
		rawURL += DataFile
	}
	client := http.DefaultClient
	if timeout > 0 {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPSource{URL: rawURL, Client: client}
}

func (s *HTTPSource) String() string { return s.URL }

// Fetch implements Source
func (s *HTTPSource) Fetch(ctx context.Context) ([]models.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("get %s: %s", s.URL, resp.Status)
	}
	return DecodeItems(io.LimitReader(resp.Body, maxPayload))
}

// FileSource reads data.json from the local filesystem
type FileSource struct {
	Path string
}

func (s *FileSource) String() string { return s.Path }

// Fetch implements Source
func (s *FileSource) Fetch(ctx context.Context) ([]models.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return DecodeItems(bytes.NewReader(data))
}

// DecodeItems parses a JSON array of items. Anything other than a single
// array, including null or trailing data after it, is rejected.
func DecodeItems(r io.Reader) ([]models.Item, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, errors.New("decode payload: expected a JSON array of items")
	}
	items := []models.Item{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return items, nil
}

// SourceOptions carries settings for the sources that need them
type SourceOptions struct {
	Timeout time.Duration
	S3      S3Config
}

// OpenSource picks a Source by the scheme of location:
// http(s)://, s3://bucket/key, sqlite://path, file://path or a bare path.
// Sources holding resources implement io.Closer.
func OpenSource(ctx context.Context, location string, opts SourceOptions) (Source, error) {
	if location == "" {
		return nil, errors.New("catalog source required")
	}
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// bare paths, including windows drive letters
		return &FileSource{Path: location}, nil
	}

	switch u.Scheme {
	case "http", "https":
		return NewHTTPSource(location, opts.Timeout), nil
	case "file":
		return &FileSource{Path: u.Host + u.Path}, nil
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if key == "" || strings.HasSuffix(key, "/") {
			key += DataFile
		}
		return NewS3Source(ctx, u.Host, key, opts.S3)
	case "sqlite":
		store, err := storage.New(u.Host + u.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported catalog source scheme %q", u.Scheme)
	}
}

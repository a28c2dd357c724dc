// Package catalog owns the raw item list. A Store performs exactly one
// retrieval from its Source and then holds either the items or the failure
// message for the rest of the process.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/meur/wishlist/internal/models"
)

// ErrLoadFailure marks every error produced by a failed catalog load
var ErrLoadFailure = errors.New("catalog load failed")

// LoadError describes why the one-time retrieval did not succeed
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() []error { return []error{ErrLoadFailure, e.Err} }

// Status is the lifecycle state of a Store
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Snapshot is a point-in-time view of a Store
type Snapshot struct {
	Status   Status        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Items    []models.Item `json:"-"`
	LoadedAt time.Time     `json:"loaded_at"`
}

// Source retrieves the raw item list
type Source interface {
	Fetch(ctx context.Context) ([]models.Item, error)
	String() string
}

// Store holds the catalog after its single load
type Store struct {
	source Source
	log    *zap.Logger

	once sync.Once
	done chan struct{}

	mu      sync.RWMutex
	snap    Snapshot
	loadErr error
}

// NewStore creates a Store in the loading state. Nothing is fetched until Load.
func NewStore(source Source, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		source: source,
		log:    log,
		done:   make(chan struct{}),
		snap:   Snapshot{Status: StatusLoading},
	}
}

// Load performs the retrieval. Only the first call fetches; later and
// concurrent calls wait for that result. The returned error is non-nil when
// the store ended up failed.
func (s *Store) Load(ctx context.Context) error {
	s.once.Do(func() { s.load(ctx) })
	<-s.done
	return s.err()
}

// Start runs Load in the background and returns immediately
func (s *Store) Start(ctx context.Context) {
	go func() { _ = s.Load(ctx) }()
}

// Done is closed once the store leaves the loading state
func (s *Store) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the load finishes or ctx ends
func (s *Store) Wait(ctx context.Context) (Snapshot, error) {
	select {
	case <-s.done:
		return s.Snapshot(), s.err()
	case <-ctx.Done():
		return s.Snapshot(), ctx.Err()
	}
}

// Snapshot returns the current state without blocking
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Items returns the loaded items, or nil when the store is not ready.
// The slice is shared and must not be modified.
func (s *Store) Items() []models.Item {
	snap := s.Snapshot()
	if snap.Status != StatusReady {
		return nil
	}
	return snap.Items
}

// Lookup returns the first item with the given code
func (s *Store) Lookup(code string) (models.Item, bool) {
	for _, item := range s.Items() {
		if item.Code == code {
			return item, true
		}
	}
	return models.Item{}, false
}

func (s *Store) err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

func (s *Store) load(ctx context.Context) {
	defer close(s.done)

	ctx, span := otel.Tracer("wishlist/catalog").Start(ctx, "catalog.Load")
	defer span.End()
	span.SetAttributes(attribute.String("catalog.source", s.source.String()))

	start := time.Now()
	items, err := s.fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		s.log.Error("catalog load failed",
			zap.String("source", s.source.String()),
			zap.Error(err))
		s.mu.Lock()
		s.snap = Snapshot{Status: StatusFailed, Message: err.Error()}
		s.loadErr = &LoadError{Source: s.source.String(), Err: err}
		s.mu.Unlock()
		return
	}

	if dups := DuplicateCodes(items); len(dups) > 0 {
		s.log.Warn("catalog has duplicate codes", zap.Strings("codes", dups))
	}
	span.SetAttributes(attribute.Int("catalog.items", len(items)))
	s.log.Info("catalog loaded",
		zap.String("source", s.source.String()),
		zap.Int("items", len(items)),
		zap.Duration("took", time.Since(start)))
	s.mu.Lock()
	s.snap = Snapshot{Status: StatusReady, Items: items, LoadedAt: time.Now()}
	s.mu.Unlock()
}

// fetch runs the source so that a cancelled ctx abandons the retrieval
// even when the source itself ignores ctx.
func (s *Store) fetch(ctx context.Context) ([]models.Item, error) {
	type result struct {
		items []models.Item
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		items, err := s.source.Fetch(ctx)
		ch <- result{items, err}
	}()
	select {
	case r := <-ch:
		if r.err == nil && r.items == nil {
			r.items = []models.Item{}
		}
		return r.items, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// DuplicateCodes returns every code that appears more than once, in first-seen order
func DuplicateCodes(items []models.Item) []string {
	seen := make(map[string]int, len(items))
	var dups []string
	for _, item := range items {
		seen[item.Code]++
		if seen[item.Code] == 2 {
			dups = append(dups, item.Code)
		}
	}
	return dups
}

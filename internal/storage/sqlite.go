package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/meur/wishlist/internal/models"
)

// ErrNotFound is returned when the database holds no catalog import yet
var ErrNotFound = errors.New("no catalog import found")

// Store keeps imported catalog snapshots in SQLite
type Store struct {
	db   *sql.DB
	path string
}

// Import describes one data.json import
type Import struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	ItemCount int       `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
}

// New creates a new Store with SQLite
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, path: dbPath}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) String() string { return "sqlite://" + s.path }

// migrate runs database migrations
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS imports (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			item_count INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			import_id TEXT NOT NULL REFERENCES imports(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			product_code TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			year_released TEXT,
			creator TEXT,
			popularity_score REAL,
			rarity_score REAL,
			combined_score REAL,
			image_filename TEXT,
			reviews TEXT,
			consensus TEXT,
			PRIMARY KEY (import_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_code ON items(import_id, product_code)`,
		`CREATE INDEX IF NOT EXISTS idx_imports_created ON imports(created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// --- Imports ---

// ImportItems stores items as a new snapshot, keeping their order
func (s *Store) ImportItems(ctx context.Context, source string, items []models.Item) (*Import, error) {
	imp := &Import{
		ID:        uuid.New().String(),
		Source:    source,
		ItemCount: len(items),
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO imports (id, source, item_count, created_at) VALUES (?, ?, ?, ?)
	`, imp.ID, imp.Source, imp.ItemCount, imp.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert import: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO items (import_id, position, product_code, name, description, year_released,
			creator, popularity_score, rarity_score, combined_score, image_filename, reviews, consensus)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for i, item := range items {
		reviews, err := json.Marshal(item.Reviews)
		if err != nil {
			return nil, fmt.Errorf("encode reviews for %s: %w", item.Code, err)
		}
		_, err = stmt.ExecContext(ctx, imp.ID, i, item.Code, item.Name, item.Description,
			item.YearReleased, item.Creator, item.PopularityScore, item.RarityScore,
			item.CombinedScore, item.ImageFilename, string(reviews), item.Consensus)
		if err != nil {
			return nil, fmt.Errorf("insert item %s: %w", item.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return imp, nil
}

// LatestImport returns the most recent import, or nil when there is none
func (s *Store) LatestImport(ctx context.Context) (*Import, error) {
	var imp Import
	err := s.db.QueryRowContext(ctx, `
		SELECT id, source, item_count, created_at
		FROM imports ORDER BY created_at DESC, rowid DESC LIMIT 1
	`).Scan(&imp.ID, &imp.Source, &imp.ItemCount, &imp.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &imp, nil
}

// GetImports returns all imports, newest first
func (s *Store) GetImports(ctx context.Context) ([]Import, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, item_count, created_at
		FROM imports ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var imports []Import
	for rows.Next() {
		var imp Import
		if err := rows.Scan(&imp.ID, &imp.Source, &imp.ItemCount, &imp.CreatedAt); err != nil {
			return nil, err
		}
		imports = append(imports, imp)
	}
	return imports, rows.Err()
}

// DeleteImportsBefore removes every import older than keepID's import
func (s *Store) DeleteImportsBefore(ctx context.Context, keepID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM imports
		WHERE created_at < (SELECT created_at FROM imports WHERE id = ?)
	`, keepID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// --- Items ---

// GetItems returns the items of an import in their original order
func (s *Store) GetItems(ctx context.Context, importID string) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_code, name, description, year_released, creator,
			popularity_score, rarity_score, combined_score, image_filename, reviews, consensus
		FROM items WHERE import_id = ? ORDER BY position
	`, importID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var item models.Item
		var description, year, creator, image, reviews, consensus sql.NullString
		err := rows.Scan(&item.Code, &item.Name, &description, &year, &creator,
			&item.PopularityScore, &item.RarityScore, &item.CombinedScore, &image, &reviews, &consensus)
		if err != nil {
			return nil, err
		}
		item.Description = description.String
		item.YearReleased = year.String
		item.Creator = creator.String
		item.ImageFilename = image.String
		item.Consensus = consensus.String
		if reviews.Valid && reviews.String != "" {
			if err := json.Unmarshal([]byte(reviews.String), &item.Reviews); err != nil {
				return nil, fmt.Errorf("decode reviews for %s: %w", item.Code, err)
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Fetch returns the items of the latest import so the store can serve as a catalog source
func (s *Store) Fetch(ctx context.Context) ([]models.Item, error) {
	imp, err := s.LatestImport(ctx)
	if err != nil {
		return nil, fmt.Errorf("latest import: %w", err)
	}
	if imp == nil {
		return nil, ErrNotFound
	}
	return s.GetItems(ctx, imp.ID)
}

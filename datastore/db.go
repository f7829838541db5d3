package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// DB is an embedded document store over SQLite. Each collection is
// backed by one table holding the record id, a soft-delete marker and
// the record fields as a JSON document.
type DB struct {
	sql *sql.DB

	mu          sync.Mutex
	collections map[string]*Collection
}

var collectionNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return &DB{sql: db, collections: make(map[string]*Collection)}, nil
}

// Collection returns the handle for one named collection, creating its
// backing table on first access.
func (db *DB) Collection(name string) (*Collection, error) {
	if !collectionNamePattern.MatchString(name) {
		return nil, fmt.Errorf("datastore: invalid collection name %q", name)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if coll, ok := db.collections[name]; ok {
		return coll, nil
	}

	queries := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			deleted INTEGER NOT NULL DEFAULT 0,
			fields TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`, name),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_deleted ON %s(deleted)`, name, name),
	}
	for _, query := range queries {
		if _, err := db.sql.Exec(query); err != nil {
			return nil, fmt.Errorf("failed to create collection %s: %w", name, err)
		}
	}

	coll := &Collection{db: db, name: name}
	db.collections[name] = coll
	return coll, nil
}

// Write runs work inside a single write transaction. The transaction
// is committed when work returns nil and rolled back otherwise.
func (db *DB) Write(ctx context.Context, work func(tx *sql.Tx) error) error {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := work(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (db *DB) Close() error {
	return db.sql.Close()
}

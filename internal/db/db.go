// Package db provides the local SQLite store for the Diiwaan sync core.
package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB wraps sqlx.DB with Diiwaan-specific configuration.
type DB struct {
	*sqlx.DB
}

// Open opens the SQLite cache database. The database is opened with WAL mode
// for concurrent reads and a single writer connection, since SQLite does not
// support multiple writers.
func Open(dataDir, file string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, file)

	// modernc.org/sqlite: pure Go, no CGO
	sdb, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sdb.SetMaxOpenConns(1)
	sdb.SetMaxIdleConns(1)

	if _, err := sdb.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := sdb.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{sdb}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.DB.Close()
}

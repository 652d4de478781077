// Package metadata persists descriptive mod information keyed by
// filename: the scanner only knows what the filesystem can tell it, and
// everything else (display name, thumbnail, catalog ids, flags) lives
// here. Keys follow the file through enable/disable untouched and are
// renamed alongside priority changes.
package metadata

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database holding per-filename metadata.
type Store struct {
	*sql.DB
}

// Open opens (creating if needed) the metadata database at path and runs
// migrations.
func Open(path string) (*Store, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("setting pragmas: %w", err)
	}

	store := &Store{DB: sqlDB}
	if err := store.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	if _, err := s.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	var version int
	if err := s.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version); err != nil {
		return fmt.Errorf("getting schema version: %w", err)
	}

	migrations := []func(*Store) error{
		migrateV1,
	}

	for i := version; i < len(migrations); i++ {
		if err := migrations[i](s); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err := s.Exec("INSERT INTO schema_migrations (version) VALUES (?)", i+1); err != nil {
			return fmt.Errorf("recording migration %d: %w", i+1, err)
		}
	}
	return nil
}

func migrateV1(s *Store) error {
	_, err := s.Exec(`
		CREATE TABLE mod_metadata (
			file_name TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			thumbnail_url TEXT,
			gamebanana_id INTEGER DEFAULT 0,
			file_id INTEGER DEFAULT 0,
			category_id INTEGER DEFAULT 0,
			section TEXT,
			nsfw INTEGER DEFAULT 0,
			variant_preset INTEGER DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating mod_metadata: %w", err)
	}
	return nil
}

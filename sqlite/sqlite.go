// Package sqlite provides a SQLite index of the datasets with full-text
// search. The index is derived from the JSON files and can be rebuilt at any
// time.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	// Verify connection
	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set busy timeout to wait 5 seconds before failing on lock contention.
	// This prevents immediate "database is locked" errors.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// Enable WAL mode for file-based databases for better write performance.
	// WAL is ~7x faster for writes and allows concurrent reads during writes.
	// Trade-off: creates additional -wal and -shm files alongside the database.
	// Note: WAL mode is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Enable foreign key constraints
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	// Create schema
	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, opts)
}

// Stats returns database statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

// createSchema creates the database tables if they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS imports (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			content_hash TEXT NOT NULL,
			records INTEGER NOT NULL DEFAULT 0,
			imported_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_imports_kind ON imports(kind, imported_at);

		CREATE TABLE IF NOT EXISTS features (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			version TEXT NOT NULL,
			platforms TEXT NOT NULL DEFAULT '{}'
		);

		CREATE INDEX IF NOT EXISTS idx_features_version ON features(version);

		CREATE TABLE IF NOT EXISTS feature_platforms (
			feature_id INTEGER NOT NULL REFERENCES features(id) ON DELETE CASCADE,
			platform TEXT NOT NULL,
			introduced TEXT NOT NULL,
			PRIMARY KEY (feature_id, platform)
		);

		CREATE INDEX IF NOT EXISTS idx_feature_platforms_platform ON feature_platforms(platform);

		CREATE TABLE IF NOT EXISTS issues (
			id INTEGER PRIMARY KEY,
			issue_id TEXT NOT NULL,
			symptom TEXT NOT NULL DEFAULT '',
			condition TEXT NOT NULL DEFAULT '',
			workaround TEXT NOT NULL DEFAULT '',
			recovery TEXT NOT NULL DEFAULT '',
			probability TEXT NOT NULL DEFAULT '',
			found_in TEXT NOT NULL DEFAULT '[]',
			technology TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			fixed_in TEXT,
			reported_version TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_issues_issue_id ON issues(issue_id COLLATE NOCASE);
		CREATE INDEX IF NOT EXISTS idx_issues_reported_version ON issues(reported_version);

		CREATE TABLE IF NOT EXISTS releases (
			version TEXT PRIMARY KEY,
			data TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS search_content (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			ref TEXT NOT NULL,
			title TEXT NOT NULL,
			version TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_search_content_kind ON search_content(kind);

		CREATE VIRTUAL TABLE IF NOT EXISTS search_fts USING fts5(
			title,
			body,
			content='search_content',
			content_rowid='rowid'
		);

		CREATE TRIGGER IF NOT EXISTS search_fts_ai AFTER INSERT ON search_content BEGIN
			INSERT INTO search_fts(rowid, title, body) VALUES (new.rowid, new.title, new.body);
		END;

		CREATE TRIGGER IF NOT EXISTS search_fts_ad AFTER DELETE ON search_content BEGIN
			INSERT INTO search_fts(search_fts, rowid, title, body) VALUES ('delete', old.rowid, old.title, old.body);
		END;

		CREATE TRIGGER IF NOT EXISTS search_fts_au AFTER UPDATE ON search_content BEGIN
			INSERT INTO search_fts(search_fts, rowid, title, body) VALUES ('delete', old.rowid, old.title, old.body);
			INSERT INTO search_fts(rowid, title, body) VALUES (new.rowid, new.title, new.body);
		END;
	`

	_, err := db.db.Exec(schema)
	return err
}

// Package store owns the SQLite transaction store: schema management, the
// ingestion upsert pipeline, and the analytical query layer shared by the
// CLI and the web API.
//
// Every exported operation takes the store path, opens its own connection,
// and closes it before returning. The store is a local analytical cache, not
// a system of record: storage errors propagate unchanged and nothing is
// retried.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"fjacquet/budgify/internal/config"
)

// Use the centralized logger from config package
var log = config.Logger

// SetLogger allows setting a custom logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

const createTransactionsTable = `
CREATE TABLE IF NOT EXISTS transactions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	date        TEXT NOT NULL,
	description TEXT NOT NULL,
	merchant    TEXT NOT NULL,
	amount      REAL NOT NULL,
	category    TEXT,
	UNIQUE(date, description, merchant, amount)
);

CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category);
`

// migration is one named, idempotent schema step. Steps run in order on
// every open, so a store created by any older version of the tool is brought
// up to date in place without data loss.
type migration struct {
	name  string
	apply func(db *sql.DB) error
}

var migrations = []migration{
	{
		name: "create transactions table",
		apply: func(db *sql.DB) error {
			_, err := db.Exec(createTransactionsTable)
			return err
		},
	},
	{
		// Stores created before provenance tracking lack this column.
		name:  "ensure provider column",
		apply: ensureColumn("transactions", "provider", "TEXT"),
	},
}

// ensureColumn returns a migration step that adds a column if it is missing.
// SQLite has no ADD COLUMN IF NOT EXISTS, so the step runs the ALTER and
// tolerates the duplicate-column error, which keeps it idempotent without
// introspecting the schema.
func ensureColumn(table, column, colType string) func(db *sql.DB) error {
	return func(db *sql.DB) error {
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, colType)
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				return nil
			}
			return err
		}
		log.WithFields(logrus.Fields{"table": table, "column": column}).
			Debug("Added missing column to store schema")
		return nil
	}
}

// openDB opens (or creates) the SQLite store at path and ensures the schema
// is current. Parent directories are created for file-backed stores;
// in-memory targets skip the filesystem entirely.
func openDB(path string) (*sql.DB, error) {
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create store directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if err := migrateSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// migrateSchema applies every migration step in order.
func migrateSchema(db *sql.DB) error {
	for _, m := range migrations {
		if err := m.apply(db); err != nil {
			return fmt.Errorf("migration %q: %w", m.name, err)
		}
	}
	return nil
}

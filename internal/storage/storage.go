// Package storage provides the SQLite-backed history ledger of admitted alerts.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rewired-gh/alertrelay/internal/models"
	_ "modernc.org/sqlite"
)

// Ledger records admitted alerts, newest-first, bounded at maxEntries.
// The default ":memory:" path keeps it volatile for the process lifetime.
type Ledger struct {
	db         *sql.DB
	maxEntries int
}

// New opens or creates the ledger database at dbPath.
// An empty dbPath defaults to ":memory:".
func New(maxEntries int, dbPath string) (*Ledger, error) {
	if dbPath == "" {
		dbPath = ":memory:"
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single connection serializes the dispatcher's writes with status reads
	l := &Ledger{db: db, maxEntries: maxEntries}
	if err := l.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return l, nil
}

// Close closes the underlying database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createTables() error {
	_, err := l.db.Exec(`CREATE TABLE IF NOT EXISTS history (
		seq       INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		symbol    TEXT NOT NULL DEFAULT '',
		category  TEXT NOT NULL,
		severity  TEXT NOT NULL,
		message   TEXT NOT NULL
	)`)
	return err
}

// Record inserts an entry and evicts the oldest entries beyond the cap.
func (l *Ledger) Record(entry models.HistoryEntry) error {
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.Exec(`
		INSERT INTO history (timestamp, symbol, category, severity, message)
		VALUES (?,?,?,?,?)`,
		entry.Timestamp, entry.Symbol, entry.Category, entry.Severity, entry.Message,
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	if _, err = tx.Exec(`
		DELETE FROM history WHERE seq NOT IN (
			SELECT seq FROM history ORDER BY seq DESC LIMIT ?
		)`, l.maxEntries); err != nil {
		return fmt.Errorf("failed to enforce history cap: %w", err)
	}

	return tx.Commit()
}

// Snapshot returns the current entries, newest-first. Safe to call
// concurrently with Record.
func (l *Ledger) Snapshot() ([]models.HistoryEntry, error) {
	rows, err := l.db.Query(`
		SELECT timestamp, symbol, category, severity, message
		FROM history ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := []models.HistoryEntry{}
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.Timestamp, &e.Symbol, &e.Category, &e.Severity, &e.Message); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Len reports the number of stored entries.
func (l *Ledger) Len() (int, error) {
	var n int
	if err := l.db.QueryRow(`SELECT COUNT(*) FROM history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count history entries: %w", err)
	}
	return n, nil
}

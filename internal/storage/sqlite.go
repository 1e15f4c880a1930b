package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteLedger stores attempted identifiers in an append-only table
type SQLiteLedger struct {
	db *sql.DB
}

// NewSQLiteLedger opens/creates the database and initializes the schema
func NewSQLiteLedger(dbPath string) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ledger := &SQLiteLedger{db: db}

	if err := ledger.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return ledger, nil
}

// initSchema creates the attempts table if it doesn't exist
func (s *SQLiteLedger) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS attempts (
		identifier TEXT PRIMARY KEY,
		attempted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Load returns every identifier recorded so far
func (s *SQLiteLedger) Load() (IdentifierSet, error) {
	rows, err := s.db.Query("SELECT identifier FROM attempts")
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts: %w", err)
	}
	defer rows.Close()

	ids := IdentifierSet{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		ids.Add(id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attempts: %w", err)
	}

	return ids, nil
}

// Append inserts ids in one transaction. Identifiers already present are left untouched.
func (s *SQLiteLedger) Append(ids IdentifierSet) error {
	if ids.Len() == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO attempts (identifier) VALUES (?)")
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids.Sorted() {
		if _, err := stmt.Exec(id); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record attempt %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit attempts: %w", err)
	}
	return nil
}

// Count returns the number of recorded identifiers
func (s *SQLiteLedger) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM attempts").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count attempts: %w", err)
	}
	return n, nil
}

// Close closes the database connection
func (s *SQLiteLedger) Close() error {
	return s.db.Close()
}

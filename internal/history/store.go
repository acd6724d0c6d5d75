// Package history persists a ledger of applied save transactions in SQLite,
// so users can answer "what did I change, and which backup predates it".
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"fsedit/internal/save"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Store implements save.History on a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the ledger at path and migrates its schema.
// path can be ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// RecordSave appends one applied transaction to the ledger.
func (s *Store) RecordSave(rec save.SaveRecord) error {
	files, err := json.Marshal(rec.FilesModified)
	if err != nil {
		return fmt.Errorf("encoding modified files: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO save_transactions (id, save_dir, backup_path, files_modified, error_count, applied_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SaveDir, rec.BackupPath, string(files), rec.ErrorCount, rec.AppliedAt)
	if err != nil {
		return fmt.Errorf("recording save transaction: %w", err)
	}
	return nil
}

// ListRecent returns the most recent transactions, newest first.
func (s *Store) ListRecent(limit int) ([]save.SaveRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, save_dir, backup_path, files_modified, error_count, applied_at
		FROM save_transactions
		ORDER BY applied_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing save transactions: %w", err)
	}
	defer rows.Close()

	var recs []save.SaveRecord
	for rows.Next() {
		var rec save.SaveRecord
		var files string
		if err := rows.Scan(&rec.ID, &rec.SaveDir, &rec.BackupPath, &files, &rec.ErrorCount, &rec.AppliedAt); err != nil {
			return nil, fmt.Errorf("scanning save transaction: %w", err)
		}
		if err := json.Unmarshal([]byte(files), &rec.FilesModified); err != nil {
			return nil, fmt.Errorf("decoding modified files: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing save transactions: %w", err)
	}
	return recs, nil
}

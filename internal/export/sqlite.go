// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/awindex/awindex/internal/sources"
	"github.com/awindex/awindex/pkg/types"
)

// Store is the relational export: a SQLite database holding the record
// set with an FTS5 index over its free text.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the export database at path and ensures the
// schema exists.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sources (
			name TEXT PRIMARY KEY,
			homepage TEXT,
			type TEXT,
			num_records INTEGER,
			num_ignored INTEGER,
			num_errors INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			url TEXT NOT NULL,
			source TEXT NOT NULL REFERENCES sources(name),
			source_url TEXT NOT NULL,
			title TEXT NOT NULL,
			creators TEXT,
			abstract TEXT,
			full_text TEXT,
			type TEXT,
			categories TEXT,
			keywords TEXT,
			license TEXT,
			date TEXT,
			date_precision TEXT,
			language TEXT,
			metadata TEXT,
			UNIQUE(url, source)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_source ON records(source)`,
		`CREATE INDEX IF NOT EXISTS idx_records_type ON records(type)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='records_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE records_fts USING fts5(title, abstract, full_text, content=records, content_rowid=rowid)`,
			`CREATE TRIGGER records_ai AFTER INSERT ON records BEGIN
				INSERT INTO records_fts(rowid, title, abstract, full_text)
				VALUES (new.rowid, new.title, new.abstract, new.full_text);
			END`,
			`CREATE TRIGGER records_ad AFTER DELETE ON records BEGIN
				INSERT INTO records_fts(records_fts, rowid, title, abstract, full_text)
				VALUES('delete', old.rowid, old.title, old.abstract, old.full_text);
			END`,
			`CREATE TRIGGER records_au AFTER UPDATE ON records BEGIN
				INSERT INTO records_fts(records_fts, rowid, title, abstract, full_text)
				VALUES('delete', old.rowid, old.title, old.abstract, old.full_text);
				INSERT INTO records_fts(rowid, title, abstract, full_text)
				VALUES (new.rowid, new.title, new.abstract, new.full_text);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// StoreSource replaces one source's rows in a single transaction: the
// source row is upserted and its previous records are dropped before the
// fresh set is inserted.
func (s *Store) StoreSource(ctx context.Context, src types.Source, sum *sources.Summary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sources (name, homepage, type, num_records, num_ignored, num_errors)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			homepage=excluded.homepage, type=excluded.type,
			num_records=excluded.num_records, num_ignored=excluded.num_ignored,
			num_errors=excluded.num_errors`,
		src.Name, src.Homepage, string(src.Type),
		sum.NumRecords, sum.NumIgnored, sum.NumErrors,
	)
	if err != nil {
		return fmt.Errorf("upserting source: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE source = ?`, src.Name); err != nil {
		return fmt.Errorf("deleting old records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (url, source, source_url, title, creators, abstract, full_text,
			type, categories, keywords, license, date, date_precision, language, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range sum.Records {
		creatorsJSON, _ := json.Marshal(rec.Creators)
		categoriesJSON, _ := json.Marshal(rec.Categories)
		keywordsJSON, _ := json.Marshal(rec.Keywords)
		metadataJSON, _ := json.Marshal(rec.Metadata)
		dateStr := ""
		if rec.Date != nil {
			dateStr = rec.Date.UTC().Format(time.RFC3339)
		}
		_, err := stmt.ExecContext(ctx,
			rec.URL, rec.Source, rec.SourceURL, rec.Title,
			string(creatorsJSON), rec.Abstract, rec.FullText,
			rec.Type, string(categoriesJSON), string(keywordsJSON),
			rec.License, dateStr, string(rec.DatePrecision),
			rec.Language, string(metadataJSON),
		)
		if err != nil {
			return fmt.Errorf("inserting record %s: %w", rec.URL, err)
		}
	}

	return tx.Commit()
}

// CountRecords returns the number of stored records, across all sources
// or for one source when name is non-empty.
func (s *Store) CountRecords(ctx context.Context, name string) (int, error) {
	var n int
	var err error
	if name == "" {
		err = s.db.QueryRowContext(ctx, `SELECT count(*) FROM records`).Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT count(*) FROM records WHERE source = ?`, name).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// SearchTitles runs an FTS5 match over the stored records and returns the
// matching titles, best first.
func (s *Store) SearchTitles(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.title FROM records_fts f
		 JOIN records r ON r.rowid = f.rowid
		 WHERE records_fts MATCH ? ORDER BY rank LIMIT ?`,
		query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		titles = append(titles, t)
	}
	return titles, rows.Err()
}

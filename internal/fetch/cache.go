// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Cache memoizes the bodies returned by an inner Fetcher in a SQLite
// table, keyed by URL. Entries older than the TTL are refetched. Fetch
// failures are never cached.
type Cache struct {
	inner Fetcher
	db    *sql.DB
	ttl   time.Duration

	// now is replaceable in tests.
	now func() time.Time
}

const defaultCacheTTL = 24 * time.Hour

// NewCache opens or creates the cache database at path and wraps inner.
// When ttl is zero the default (24h) is used.
func NewCache(inner Fetcher, path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	if _, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS fetches (
			url TEXT PRIMARY KEY,
			body TEXT NOT NULL,
			fetched_at TEXT NOT NULL
		)`,
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &Cache{inner: inner, db: db, ttl: ttl, now: time.Now}, nil
}

// Close releases the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Fetch returns the cached body for url when it is still fresh, otherwise
// delegates to the inner Fetcher and stores the result.
func (c *Cache) Fetch(ctx context.Context, url string) (string, error) {
	var body, fetchedAt string
	err := c.db.QueryRowContext(ctx,
		`SELECT body, fetched_at FROM fetches WHERE url = ?`, url,
	).Scan(&body, &fetchedAt)
	if err == nil {
		if t, parseErr := time.Parse(time.RFC3339Nano, fetchedAt); parseErr == nil {
			if c.now().Sub(t) < c.ttl {
				return body, nil
			}
		}
	}

	body, err = c.inner.Fetch(ctx, url)
	if err != nil {
		return "", err
	}

	_, storeErr := c.db.ExecContext(ctx,
		`INSERT INTO fetches (url, body, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET body=excluded.body, fetched_at=excluded.fetched_at`,
		url, body, c.now().UTC().Format(time.RFC3339Nano),
	)
	if storeErr != nil {
		return "", fmt.Errorf("caching %s: %w", url, storeErr)
	}
	return body, nil
}

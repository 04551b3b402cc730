package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"trackpace/internal/core/model"
)

const databaseFileName = "trackpace.db"

const kvSchema = `CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLiteStore keeps the session as a JSON blob in a key/value table.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLiteStore opens <dir>/trackpace.db and creates the kv table.
func OpenSQLiteStore(dir string) (*SQLiteStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("state directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	path := filepath.Join(filepath.Clean(dir), databaseFileName)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, path: path}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (store *SQLiteStore) Path() string {
	return store.path
}

func (store *SQLiteStore) ensureSchema() error {
	if _, err := store.db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		return fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := store.db.Exec(kvSchema); err != nil {
		return fmt.Errorf("create kv table: %w", err)
	}
	return nil
}

// Load reads the saved session. found is false when no row exists yet.
func (store *SQLiteStore) Load(ctx context.Context) (model.SessionState, bool, error) {
	var value string
	err := store.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, SessionKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SessionState{}, false, nil
	}
	if err != nil {
		return model.SessionState{}, false, fmt.Errorf("query session: %w", err)
	}

	record := defaultRecord()
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return model.SessionState{}, false, fmt.Errorf("parse session json: %w", err)
	}
	return record.toState(), true, nil
}

// Save upserts the session row.
func (store *SQLiteStore) Save(ctx context.Context, state model.SessionState) error {
	payload, err := json.Marshal(toRecord(state))
	if err != nil {
		return fmt.Errorf("marshal session json: %w", err)
	}

	_, err = store.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		SessionKey, string(payload), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (store *SQLiteStore) Close() error {
	if store == nil || store.db == nil {
		return nil
	}
	return store.db.Close()
}

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/printflow2050/printflow-cli/internal/session/migrations"
)

// SQLiteStore is the Store implementation backed by a local SQLite file.
// Concurrent processes serialize on the database; the last writer wins,
// same as the web client's local storage.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) the database at dsn and applies migrations.
func Open(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	// WAL keeps a second process from blocking reads during a write;
	// busy_timeout makes conflicting writers wait instead of failing.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("configure session store: %w", err)
		}
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate session store: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// RunMigrations applies the embedded goose migrations. Safe to call on an
// already migrated database.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *SQLiteStore) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session_values WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get session value %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_values (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("set session value %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session_values WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete session value %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Token(ctx context.Context, shopID string) (string, error) {
	return s.get(ctx, TokenKey(shopID))
}

func (s *SQLiteStore) SaveToken(ctx context.Context, shopID string, token string) error {
	return s.set(ctx, TokenKey(shopID), token)
}

func (s *SQLiteStore) ClearToken(ctx context.Context, shopID string) error {
	return s.delete(ctx, TokenKey(shopID))
}

func (s *SQLiteStore) Credential(ctx context.Context) (string, error) {
	return s.get(ctx, credentialKey)
}

func (s *SQLiteStore) SaveCredential(ctx context.Context, credential string) error {
	return s.set(ctx, credentialKey, credential)
}

func (s *SQLiteStore) ClearCredential(ctx context.Context) error {
	return s.delete(ctx, credentialKey)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

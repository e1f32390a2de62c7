package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tartampluch/go-babyage/internal/config"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the blobs in a single kv table of a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the schema exists.
// ":memory:" gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open(config.SQLDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreOpen, err)
	}
	// A single connection keeps ":memory:" databases shared between calls.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrStoreOpen, err)
	}
	if _, err := db.ExecContext(ctx, config.SQLSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrStoreSchema, err)
	}

	slog.Info(config.MsgStoreOpened,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyStore, config.StoreSQLite,
		config.LogKeyPath, path,
	)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, config.SQLSelectValue, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s %q: %w", config.ErrStoreRead, key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, config.SQLUpsertValue, key, value); err != nil {
		return fmt.Errorf("%s %q: %w", config.ErrStoreWrite, key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, config.SQLDeleteValue, key); err != nil {
		return fmt.Errorf("%s %q: %w", config.ErrStoreWrite, key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nayakvinit/lendbook/internal/domain"
	customError "github.com/nayakvinit/lendbook/pkg/errors"
)

const snapshotSlot = "ledger"

type sqliteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore persists the snapshot in a single-row slot table of a local
// SQLite database. Still a key-value slot, just a durable embedded one.
func NewSQLiteStore(path string) (SnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, customError.WrapStorageError(err)
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS snapshots (
			slot       TEXT PRIMARY KEY,
			payload    TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, customError.WrapStorageError(err)
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Load(ctx context.Context) ([]*domain.LendingRecord, error) {
	query := `SELECT payload FROM snapshots WHERE slot = $1`

	var payload string
	err := s.db.GetContext(ctx, &payload, query, snapshotSlot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	return DecodeSnapshot([]byte(payload))
}

func (s *sqliteStore) Save(ctx context.Context, records []*domain.LendingRecord) error {
	payload, err := EncodeSnapshot(records)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO snapshots (slot, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT(slot) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, snapshotSlot, string(payload), time.Now().UTC()); err != nil {
		return customError.WrapStorageError(err)
	}
	return nil
}

func (s *sqliteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return customError.WrapStorageError(err)
	}
	return nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

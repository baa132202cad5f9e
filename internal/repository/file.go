package repository

import (
	"context"
	"os"
	"path/filepath"

	"github.com/nayakvinit/lendbook/internal/domain"
	customError "github.com/nayakvinit/lendbook/pkg/errors"
)

type fileStore struct {
	path string
}

// NewFileStore persists the snapshot as a single JSON file. Saves go through
// a temp file and rename so a crash mid-write never leaves a torn snapshot.
func NewFileStore(path string) SnapshotStore {
	return &fileStore{path: path}
}

func (s *fileStore) Load(ctx context.Context) ([]*domain.LendingRecord, error) {
	payload, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}
	return DecodeSnapshot(payload)
}

func (s *fileStore) Save(ctx context.Context, records []*domain.LendingRecord) error {
	payload, err := EncodeSnapshot(records)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return customError.WrapStorageError(err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return customError.WrapStorageError(err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return customError.WrapStorageError(err)
	}
	return nil
}

func (s *fileStore) Ping(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return customError.WrapStorageError(err)
	}
	return nil
}

func (s *fileStore) Close() error {
	return nil
}

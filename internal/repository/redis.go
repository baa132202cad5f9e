package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/nayakvinit/lendbook/internal/domain"
	customError "github.com/nayakvinit/lendbook/pkg/errors"
)

type redisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore persists the snapshot under a single Redis key.
func NewRedisStore(client *redis.Client, key string) SnapshotStore {
	return &redisStore{client: client, key: key}
}

func (s *redisStore) Load(ctx context.Context) ([]*domain.LendingRecord, error) {
	payload, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}
	return DecodeSnapshot(payload)
}

func (s *redisStore) Save(ctx context.Context, records []*domain.LendingRecord) error {
	payload, err := EncodeSnapshot(records)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return customError.WrapStorageError(err)
	}
	return nil
}

func (s *redisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return customError.WrapStorageError(err)
	}
	return nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}

package repository

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/nayakvinit/lendbook/internal/config"
)

// Open builds the snapshot store selected by the configuration.
func Open(cfg *config.Config) (SnapshotStore, error) {
	switch cfg.Storage.Driver {
	case config.DriverFile:
		return NewFileStore(cfg.Storage.FilePath), nil
	case config.DriverSQLite:
		return NewSQLiteStore(cfg.Storage.SQLitePath)
	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return NewRedisStore(client, cfg.Storage.RedisKey), nil
	case config.DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

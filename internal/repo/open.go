package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BuzzLyutic/todo-app/internal/config"
)

// OpenKV выбирает backend по cfg.StorageBackend. Вызывающий обязан вызвать closeFn.
func OpenKV(ctx context.Context, cfg config.Config) (kv KVStore, closeFn func(), err error) {
	switch cfg.StorageBackend {
	case "memory", "":
		return NewMemoryKV(), func() {}, nil

	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("%w: ping redis: %w", ErrStorage, err)
		}
		return NewRedisKV(client, cfg.RedisPrefix), func() { client.Close() }, nil

	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: connect postgres: %w", ErrStorage, err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("%w: ping postgres: %w", ErrStorage, err)
		}
		pg := NewPostgresKV(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("%w: create schema: %w", ErrStorage, err)
		}
		return pg, pool.Close, nil

	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("%w: open sqlite: %w", ErrStorage, err)
		}
		s, err := NewSQLiteKV(db)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: migrate sqlite: %w", ErrStorage, err)
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
		return s, closeFn, nil
	}

	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Compile-time check
var _ Backend = (*redisBackend)(nil)

// redisBackend хранит слоты как обычные строки Redis без TTL.
type redisBackend struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisBackend создает бэкенд хранилища поверх Redis.
func NewRedisBackend(client *redis.Client, logger *zap.Logger) Backend {
	return &redisBackend{
		client: client,
		logger: logger.Named("RedisBackend"),
	}
}

func (b *redisBackend) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("ошибка чтения слота %s из Redis: %w", key, err)
	}
	return data, nil
}

func (b *redisBackend) Save(ctx context.Context, key string, data []byte) error {
	if err := b.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("ошибка записи слота %s в Redis: %w", key, err)
	}
	b.logger.Debug("Слот записан", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

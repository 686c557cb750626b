package storage

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol/utils"
)

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStore keeps values in redis, expiring them after ttl
type RedisStore struct {
	client redisClient
	ttl    time.Duration
}

// NewRedisStore connects lazily; the first command dials the server.
func NewRedisStore(cfg utils.StorageConfig, ttl time.Duration) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.Password,
		DB:       cfg.RedisDB,
	})
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Save(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return errors.Wrapf(err, "[RedisStore.Save] failed to set key: %+v", key)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errors.Wrapf(ErrNotFound, "[RedisStore.Load] %+v", key)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "[RedisStore.Load] failed to get key: %+v", key)
	}
	return data, nil
}

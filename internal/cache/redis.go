package cache

import (
	"context"
	"log/slog"
	"time"

	redis "github.com/go-redis/redis/v8"
)

// RedisConfig configures the Redis backing store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// redisStore adapts a Redis client to the Store interface.
type redisStore struct {
	client *redis.Client
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte) error {
	// No Redis-side expiry: TTL enforcement is category-keyed and happens
	// at read time.
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *redisStore) Keys(ctx context.Context) ([]string, error) {
	return s.client.Keys(ctx, "*").Result()
}

func (s *redisStore) Delete(ctx context.Context, keys ...string) (int64, error) {
	return s.client.Del(ctx, keys...).Result()
}

// NewRedis creates a Redis-backed cache. It never fails: when the initial
// ping does not succeed the returned cache is disabled and the pipeline
// runs uncached.
func NewRedis(ctx context.Context, cfg RedisConfig, ttls TTLs, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("cache backing store unavailable, running with cache disabled",
			"addr", cfg.Addr,
			"error", err,
		)
		return New(nil, ttls, logger)
	}

	logger.Info("cache connected", "addr", cfg.Addr)
	return New(&redisStore{client: client}, ttls, logger)
}

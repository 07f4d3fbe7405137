package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sitescope/utils"
)

const redisKeyPrefix = "sitescope:session:"

// RedisStore keeps each session as a Redis hash that expires after the TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisStore connects to Redis and verifies the connection with a PING,
// retrying per retry.
func NewRedisStore(ctx context.Context, opts RedisOptions, retry *utils.RetryConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	err := retry.Do(ctx, "redis-ping", func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}

	return &RedisStore{client: client, ttl: opts.TTL}, nil
}

func (s *RedisStore) Session(id string) KV {
	return &redisKV{store: s, key: redisKeyPrefix + id}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

type redisKV struct {
	store *RedisStore
	key   string
}

func (kv *redisKV) Get(ctx context.Context, field string) (string, bool, error) {
	val, err := kv.store.client.HGet(ctx, kv.key, field).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis: hget %s: %w", field, err)
	}
	return val, true, nil
}

func (kv *redisKV) Set(ctx context.Context, field, value string) error {
	pipe := kv.store.client.TxPipeline()
	pipe.HSet(ctx, kv.key, field, value)
	if kv.store.ttl > 0 {
		pipe.Expire(ctx, kv.key, kv.store.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: hset %s: %w", field, err)
	}
	return nil
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/wordiz/internal/vocab"
)

// maxTxRetries bounds optimistic-lock retries in UpdateCollection.
const maxTxRetries = 8

// RedisStore keeps the item collection as one JSON document and settings
// in a hash, namespaced by profile. It has no event log.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// ParseRedisURL validates a Redis connection URL.
func ParseRedisURL(url string) (*redis.Options, error) {
	if url == "" {
		return nil, fmt.Errorf("redis URL is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return opts, nil
}

// OpenRedis connects to Redis and verifies the connection.
func OpenRedis(ctx context.Context, url, profile string) (*RedisStore, error) {
	opts, err := ParseRedisURL(url)
	if err != nil {
		return nil, err
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return NewRedisStore(client, profile), nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, profile string) *RedisStore {
	if profile == "" {
		profile = "default"
	}
	return &RedisStore{client: client, prefix: "wordiz:" + profile + ":"}
}

func (s *RedisStore) itemsKey() string    { return s.prefix + "items" }
func (s *RedisStore) settingsKey() string { return s.prefix + "settings" }

// Collection returns s; the collection lives in a single key.
func (s *RedisStore) Collection() CollectionRepo { return s }

// Settings returns s; settings live in a hash.
func (s *RedisStore) Settings() SettingsRepo { return s }

// Events returns nil: Redis profiles keep no event log.
func (s *RedisStore) Events() EventRepo { return nil }

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) ReadCollection(ctx context.Context) ([]vocab.Item, error) {
	raw, err := s.client.Get(ctx, s.itemsKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	return decodeItems(raw)
}

func (s *RedisStore) WriteCollection(ctx context.Context, items []vocab.Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	if err := s.client.Set(ctx, s.itemsKey(), raw, 0).Err(); err != nil {
		return fmt.Errorf("set items: %w", err)
	}
	return nil
}

// UpdateCollection applies fn under WATCH and retries when another writer
// changes the collection between read and write.
func (s *RedisStore) UpdateCollection(ctx context.Context, fn func([]vocab.Item) ([]vocab.Item, error)) error {
	key := s.itemsKey()
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		var current []vocab.Item
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("get items: %w", err)
		default:
			// Corrupt documents read as empty, matching ReadCollection callers.
			current, _ = decodeItems(raw)
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		out, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("marshal items: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("update items: %w", redis.TxFailedErr)
}

func (s *RedisStore) ReadSetting(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.settingsKey(), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read setting %q: %w", key, err)
	}
	return v, true, nil
}

func (s *RedisStore) WriteSetting(ctx context.Context, key, value string) error {
	if err := s.client.HSet(ctx, s.settingsKey(), key, value).Err(); err != nil {
		return fmt.Errorf("write setting %q: %w", key, err)
	}
	return nil
}

func decodeItems(raw []byte) ([]vocab.Item, error) {
	var items []vocab.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	for i := range items {
		items[i].EnsureCounters()
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return items, nil
}

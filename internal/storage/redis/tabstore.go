// Package redis keeps per-tab ephemeral state in redis hashes that expire
// when a tab stops talking to the server.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dtroode/storefront-server/internal/model"
)

const (
	keyPrefix     = "storefront:tab:"
	maxTxAttempts = 5
)

// NewClient connects to redis and checks the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address is empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

var _ model.TabStoreProvider = (*TabStores)(nil)

// TabStores hands out redis-backed tab stores sharing one client.
type TabStores struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTabStores creates a provider. Each tab hash expires ttl after its last write.
func NewTabStores(client *redis.Client, ttl time.Duration) *TabStores {
	return &TabStores{client: client, ttl: ttl}
}

// ForTab returns the store of tabID.
func (p *TabStores) ForTab(tabID string) model.TabStore {
	return &TabStore{client: p.client, key: hashKey(tabID), ttl: p.ttl}
}

func hashKey(tabID string) string {
	return keyPrefix + tabID
}

var _ model.TabStore = (*TabStore)(nil)

// TabStore maps one tab onto a single redis hash.
type TabStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func (s *TabStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.key, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get tab field: %w", err)
	}
	return v, true, nil
}

func (s *TabStore) Set(ctx context.Context, key, value string) error {
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, s.key, key, value)
		s.touch(ctx, p)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set tab field: %w", err)
	}
	return nil
}

func (s *TabStore) Delete(ctx context.Context, key string) error {
	if err := s.client.HDel(ctx, s.key, key).Err(); err != nil {
		return fmt.Errorf("failed to delete tab field: %w", err)
	}
	return nil
}

// Update applies fn under WATCH and retries when another writer touched the tab.
func (s *TabStore) Update(ctx context.Context, key string, fn model.UpdateFunc) error {
	txf := func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, s.key, key).Result()
		ok := true
		if errors.Is(err, redis.Nil) {
			ok = false
		} else if err != nil {
			return fmt.Errorf("failed to read tab field: %w", err)
		}

		next, err := fn(current, ok)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.HSet(ctx, s.key, key, next)
			s.touch(ctx, p)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, s.key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("failed to update tab field %q: too much contention", key)
}

func (s *TabStore) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.client.HKeys(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list tab fields: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *TabStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear tab: %w", err)
	}
	return nil
}

func (s *TabStore) touch(ctx context.Context, p redis.Pipeliner) {
	if s.ttl > 0 {
		p.Expire(ctx, s.key, s.ttl)
	}
}

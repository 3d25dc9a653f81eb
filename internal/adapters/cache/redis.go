package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/cash_memo_ledger/internal/apperrors"
	portscache "github.com/SscSPs/cash_memo_ledger/internal/core/ports/cache"
	"github.com/redis/go-redis/v9"
)

const defaultScanBatchSize = 100

// RedisConfig holds the connection settings for the redis store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore implements cache.Store on redis. Every key is namespaced with a prefix
// so Clear only removes what this service wrote.
type RedisStore struct {
	client     redis.UniversalClient
	ownsClient bool
	prefix     string
	logger     *slog.Logger
}

// RedisStoreOption is a functional option for configuring the redis store.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix sets the namespace prepended to every key.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// WithRedisLogger sets the logger for debug output. Failures are returned, not
// logged; the caller decides how loud a cache failure is.
func WithRedisLogger(logger *slog.Logger) RedisStoreOption {
	return func(s *RedisStore) {
		s.logger = logger
	}
}

// NewRedisStore connects to redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig, opts ...RedisStoreOption) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	s := NewRedisStoreWithClient(client, opts...)
	s.ownsClient = true
	return s, nil
}

// NewRedisStoreWithClient wraps an existing client. The caller keeps ownership of it.
func NewRedisStoreWithClient(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: "ledger:",
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portscache.Store = (*RedisStore)(nil)

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

// Get retrieves a value. Redis expires keys itself, so a miss covers both cases.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.Upstream("cache get failed", err)
	}
	return data, true, nil
}

// Set stores a value with ttl. A ttl <= 0 deletes the key.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return s.Delete(ctx, key)
	}
	if err := s.client.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		return apperrors.Upstream("cache set failed", err)
	}
	return nil
}

// Delete removes keys.
func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return apperrors.Upstream("cache delete failed", err)
	}
	return nil
}

// DeletePrefix removes every key under prefix using SCAN, never KEYS.
func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) error {
	return s.deleteMatching(ctx, s.key(prefix)+"*")
}

// Clear removes every key under the store's namespace.
func (s *RedisStore) Clear(ctx context.Context) error {
	return s.deleteMatching(ctx, s.prefix+"*")
}

func (s *RedisStore) deleteMatching(ctx context.Context, pattern string) error {
	var cursor uint64
	removed := 0
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, defaultScanBatchSize).Result()
		if err != nil {
			return apperrors.Upstream("cache scan failed", err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return apperrors.Upstream("cache delete failed", err)
			}
			removed += len(keys)
		}
		cursor = next
		if cursor == 0 {
			s.logger.DebugContext(ctx, "Removed cache keys", slog.String("pattern", pattern), slog.Int("count", removed))
			return nil
		}
	}
}

// Ping reports whether redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the client when the store created it.
func (s *RedisStore) Close() error {
	if s.ownsClient {
		return s.client.Close()
	}
	return nil
}

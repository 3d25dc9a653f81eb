package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/SscSPs/cash_memo_ledger/internal/core/ports/cache"
	"github.com/SscSPs/cash_memo_ledger/internal/middleware"
)

// DefaultCacheTTL is used when a service is given a cache without a ttl.
const DefaultCacheTTL = 5 * time.Minute

// BaseService carries what every ledger service shares: the optional read
// cache and a logger tagged with the service's name.
type BaseService struct {
	Cache    cache.Store
	CacheTTL time.Duration

	component string
}

func (s *BaseService) logger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if s.component != "" {
		logger = logger.With(slog.String("component", s.component))
	}
	return logger
}

func (s *BaseService) logErr(ctx context.Context, level slog.Level, err error, msg string, attrs []any) {
	s.logger(ctx).Log(ctx, level, msg, append([]any{slog.String("error", err.Error())}, attrs...)...)
}

// LogError reports a failed operation together with its cause.
func (s *BaseService) LogError(ctx context.Context, err error, msg string, attrs ...any) {
	s.logErr(ctx, slog.LevelError, err, msg, attrs)
}

// LogWarn reports a failure the service recovered from (cache trouble, lost races).
func (s *BaseService) LogWarn(ctx context.Context, err error, msg string, attrs ...any) {
	s.logErr(ctx, slog.LevelWarn, err, msg, attrs)
}

func (s *BaseService) LogInfo(ctx context.Context, msg string, attrs ...any) {
	s.logger(ctx).InfoContext(ctx, msg, attrs...)
}

func (s *BaseService) LogDebug(ctx context.Context, msg string, attrs ...any) {
	s.logger(ctx).DebugContext(ctx, msg, attrs...)
}

// cacheGet decodes the cached value for key into dst. Cache failures count as a miss.
func (s *BaseService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.Cache == nil {
		return false
	}
	raw, ok, err := s.Cache.Get(ctx, key)
	if err != nil {
		s.LogWarn(ctx, err, "Cache read failed", slog.String("key", key))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.LogWarn(ctx, err, "Discarding undecodable cache value", slog.String("key", key))
		s.cacheDelete(ctx, key)
		return false
	}
	s.LogDebug(ctx, "Cache hit", slog.String("key", key))
	return true
}

// cachePut stores v under key for CacheTTL.
func (s *BaseService) cachePut(ctx context.Context, key string, v any) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		s.LogWarn(ctx, err, "Failed to encode value for cache", slog.String("key", key))
		return
	}
	ttl := s.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if err := s.Cache.Set(ctx, key, raw, ttl); err != nil {
		s.LogWarn(ctx, err, "Cache write failed", slog.String("key", key))
	}
}

func (s *BaseService) cacheDelete(ctx context.Context, keys ...string) {
	if s.Cache == nil || len(keys) == 0 {
		return
	}
	if err := s.Cache.Delete(ctx, keys...); err != nil {
		s.LogWarn(ctx, err, "Cache invalidation failed", slog.Any("keys", keys))
	}
}

func (s *BaseService) cacheDeletePrefix(ctx context.Context, prefix string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.DeletePrefix(ctx, prefix); err != nil {
		s.LogWarn(ctx, err, "Cache prefix invalidation failed", slog.String("prefix", prefix))
	}
}

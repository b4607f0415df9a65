package explain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/trailhead/internal/logger"
)

const keyPrefix = "trailhead:explanation:"

// Cache stores explanation text by key.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// RedisCache implements Cache on a go-redis client.
type RedisCache struct {
	rdb redis.Cmdable
}

// NewRedisCache wraps an existing client.
func NewRedisCache(rdb redis.Cmdable) *RedisCache {
	return &RedisCache{rdb: rdb}
}

// DialRedis connects to addr and verifies the connection with PING.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// CachedSource serves explanations from a cache, asking the inner source on
// a miss. Failures are never cached. Cache errors are logged and treated as
// misses.
type CachedSource struct {
	inner Source
	cache Cache
	ttl   time.Duration
	log   *logger.Logger
}

// NewCachedSource wraps inner with cache. A zero ttl keeps entries forever.
func NewCachedSource(inner Source, cache Cache, ttl time.Duration, log *logger.Logger) *CachedSource {
	if log == nil {
		log = logger.Nop()
	}
	return &CachedSource{inner: inner, cache: cache, ttl: ttl, log: log.With("component", "explain_cache")}
}

func (c *CachedSource) Explain(ctx context.Context, req Request) (string, error) {
	key := CacheKey(req)

	text, ok, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		c.log.Warn("cache get failed", "key", key, "err", err)
	case ok && text != "":
		c.log.Debug("cache hit", "key", key)
		return text, nil
	default:
		c.log.Debug("cache miss", "key", key)
	}

	text, err = c.inner.Explain(ctx, req)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrEmpty
	}
	if err := c.cache.Set(ctx, key, text, c.ttl); err != nil {
		c.log.Warn("cache set failed", "key", key, "err", err)
	}
	return text, nil
}

// CacheKey hashes the three request strings into a stable key.
func CacheKey(req Request) string {
	h := sha256.New()
	for _, s := range []string{req.Question, req.CorrectAnswer, req.SelectedAnswer} {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// Package cache provides the Redis-backed read cache for exchange rates.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	appexchange "github.com/erpsuite/finance/internal/application/exchange"
	"github.com/erpsuite/finance/internal/domain/exchange"
	"github.com/erpsuite/finance/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultRateTTL is slightly above the feed interval so a healthy feed
// always refreshes the key before it expires.
const DefaultRateTTL = 7 * time.Hour

// RedisRateCache implements the exchange rate read cache on Redis.
// Every method degrades gracefully; a broken cache must never block
// invoice creation.
type RedisRateCache struct {
	client     *redis.Client
	ownsClient bool
	ttl        time.Duration
	logger     *zap.Logger
}

// RedisRateCacheOption is a functional option for configuring the cache
type RedisRateCacheOption func(*RedisRateCache)

// WithRateTTL sets the cache entry lifetime
func WithRateTTL(ttl time.Duration) RedisRateCacheOption {
	return func(c *RedisRateCache) {
		c.ttl = ttl
	}
}

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisRateCacheOption {
	return func(c *RedisRateCache) {
		c.logger = logger
	}
}

// NewRedisRateCache connects to Redis and returns a rate cache
func NewRedisRateCache(cfg config.RedisConfig, opts ...RedisRateCacheOption) (*RedisRateCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisRateCache{
		client:     client,
		ownsClient: true,
		ttl:        DefaultRateTTL,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisRateCacheWithClient creates a cache over an existing client.
// The caller retains ownership of the client.
func NewRedisRateCacheWithClient(client *redis.Client, opts ...RedisRateCacheOption) *RedisRateCache {
	cache := &RedisRateCache{
		client:     client,
		ownsClient: false,
		ttl:        DefaultRateTTL,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

func rateCacheKey(base, secondary string) string {
	return fmt.Sprintf("exchange_rate:%s:%s", base, secondary)
}

// Get returns the cached rate for the pair, nil on a miss
func (c *RedisRateCache) Get(ctx context.Context, base, secondary string) (*exchange.Rate, error) {
	data, err := c.client.Get(ctx, rateCacheKey(base, secondary)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		c.logger.Warn("failed to read rate from cache",
			zap.String("pair", base+"/"+secondary),
			zap.Error(err))
		return nil, fmt.Errorf("failed to read rate from cache: %w", err)
	}

	var rate exchange.Rate
	if err := json.Unmarshal(data, &rate); err != nil {
		c.logger.Warn("malformed rate in cache, treating as miss",
			zap.String("pair", base+"/"+secondary),
			zap.Error(err))
		return nil, nil
	}

	return &rate, nil
}

// Set stores the rate under its pair key
func (c *RedisRateCache) Set(ctx context.Context, rate *exchange.Rate) error {
	data, err := json.Marshal(rate)
	if err != nil {
		return fmt.Errorf("failed to marshal rate: %w", err)
	}

	key := rateCacheKey(rate.BaseCurrency, rate.SecondaryCurrency)
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache rate: %w", err)
	}
	return nil
}

// Close releases the Redis client when this cache owns it
func (c *RedisRateCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// Ensure RedisRateCache implements the service cache interface
var _ appexchange.RateCache = (*RedisRateCache)(nil)

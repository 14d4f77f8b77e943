// Package cache keeps PC-builder component listings in Redis. A nil
// client disables it; every method then behaves as a miss.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/itechcomputers/storefront/config"
	"github.com/itechcomputers/storefront/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "pcbuilder:components:"

type Components struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewComponents(client *redis.Client, ttl time.Duration, log *zap.Logger) *Components {
	if log == nil {
		log = zap.NewNop()
	}
	return &Components{client: client, ttl: ttl, log: log}
}

// Enabled reports whether a Redis client is configured.
func (c *Components) Enabled() bool {
	return c != nil && c.client != nil
}

// Get returns the cached components of a category.
func (c *Components) Get(ctx context.Context, categorySlug string) ([]models.Product, bool) {
	if !c.Enabled() {
		return nil, false
	}
	raw, err := c.client.Get(ctx, keyPrefix+categorySlug).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("component cache read failed", zap.String("category", categorySlug), zap.Error(err))
		}
		return nil, false
	}
	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		c.log.Warn("component cache entry is corrupt", zap.String("category", categorySlug), zap.Error(err))
		return nil, false
	}
	return products, true
}

// Set stores the components of a category for the configured TTL.
// Failures are logged; the cache is never the source of truth.
func (c *Components) Set(ctx context.Context, categorySlug string, products []models.Product) {
	if !c.Enabled() {
		return
	}
	raw, err := json.Marshal(products)
	if err != nil {
		c.log.Warn("component cache encode failed", zap.String("category", categorySlug), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, keyPrefix+categorySlug, raw, c.ttl).Err(); err != nil {
		c.log.Warn("component cache write failed", zap.String("category", categorySlug), zap.Error(err))
	}
}

// Invalidate drops the cached components of the given categories.
func (c *Components) Invalidate(ctx context.Context, categorySlugs ...string) {
	if !c.Enabled() || len(categorySlugs) == 0 {
		return
	}
	keys := make([]string, len(categorySlugs))
	for i, s := range categorySlugs {
		keys[i] = keyPrefix + s
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("component cache invalidation failed", zap.Strings("categories", categorySlugs), zap.Error(err))
	}
}

// NewClient connects to Redis when an address is configured. An
// unreachable server disables caching instead of failing startup.
func NewClient(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) *redis.Client {
	if cfg.Addr == "" {
		log.Info("Redis not configured, component caching disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis configured but not reachable, component caching disabled", zap.String("addr", cfg.Addr), zap.Error(err))
		_ = client.Close()
		return nil
	}
	log.Info("Redis connection successful", zap.String("addr", cfg.Addr))
	return client
}

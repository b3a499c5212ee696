package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	versionKey    = "catalog:version"
	feedKeyPrefix = "feed:"
)

// Client caches feed pages and tracks the catalog version used for cache
// invalidation. The version is bumped after every committed scrape run, so
// cached pages keyed by it expire naturally.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// CatalogVersion returns the current catalog version, initializing it on
// first use.
func (c *Client) CatalogVersion(ctx context.Context) (string, error) {
	version, err := c.rdb.Get(ctx, versionKey).Result()
	if err == redis.Nil {
		return c.BumpCatalogVersion(ctx)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read catalog version: %w", err)
	}
	return version, nil
}

// BumpCatalogVersion advances the catalog version, invalidating every cached
// feed page keyed by the previous one.
func (c *Client) BumpCatalogVersion(ctx context.Context) (string, error) {
	version := time.Now().UTC().Format(time.RFC3339)
	if err := c.rdb.Set(ctx, versionKey, version, 0).Err(); err != nil {
		return "", fmt.Errorf("failed to bump catalog version: %w", err)
	}
	return version, nil
}

// GetFeedPage returns a cached serialized feed page, or redis.Nil-backed
// miss reported as ok=false.
func (c *Client) GetFeedPage(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := c.rdb.Get(ctx, feedKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

// SetFeedPage caches a serialized feed page with a TTL.
func (c *Client) SetFeedPage(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, feedKeyPrefix+key, payload, ttl).Err()
}

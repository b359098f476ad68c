// Package cache keeps successful media lookups in Redis.
package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	KindImage = "image"
	KindVideo = "video"
)

// MediaCache maps a search query to the URL or id it resolved to.
// A nil *MediaCache, a nil client or a zero TTL behave as an always-empty cache.
type MediaCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewMediaCache(client *redis.Client, ttl time.Duration) *MediaCache {
	return &MediaCache{client: client, ttl: ttl}
}

// Key builds "media:<kind>:<query>" with the query trimmed and lowercased.
func Key(kind, query string) string {
	return "media:" + kind + ":" + strings.ToLower(strings.TrimSpace(query))
}

func (c *MediaCache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// Get returns the cached value and whether it was present.
func (c *MediaCache) Get(ctx context.Context, kind, query string) (string, bool, error) {
	if !c.enabled() {
		return "", false, nil
	}

	val, err := c.client.Get(ctx, Key(kind, query)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set stores value for the configured TTL.
func (c *MediaCache) Set(ctx context.Context, kind, query, value string) error {
	if !c.enabled() || value == "" {
		return nil
	}
	return c.client.Set(ctx, Key(kind, query), value, c.ttl).Err()
}

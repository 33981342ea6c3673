// Package redis backs the tender summary cache with Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tenderly/internal/domain/repositories"
)

// KeyPrefixSummary namespaces cached summaries
const KeyPrefixSummary = "tenderly:summary:"

// SummaryCache implements repositories.SummaryCache
type SummaryCache struct {
	client *redis.Client
}

// Connect parses a redis:// URL and verifies the server answers PING
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// NewSummaryCache wraps an existing client
func NewSummaryCache(client *redis.Client) repositories.SummaryCache {
	return &SummaryCache{client: client}
}

// SummaryKey returns the cache key of a tender summary
func SummaryKey(tenderID string) string {
	return KeyPrefixSummary + tenderID
}

// Get returns the cached summary; ("", false, nil) on a miss
func (c *SummaryCache) Get(ctx context.Context, tenderID string) (string, bool, error) {
	summary, err := c.client.Get(ctx, SummaryKey(tenderID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get cached summary: %w", err)
	}
	return summary, true, nil
}

// Set stores a summary for ttl
func (c *SummaryCache) Set(ctx context.Context, tenderID, summary string, ttl time.Duration) error {
	if err := c.client.Set(ctx, SummaryKey(tenderID), summary, ttl).Err(); err != nil {
		return fmt.Errorf("cache summary: %w", err)
	}
	return nil
}

package memory

import (
	"context"
	"sync"
	"time"
)

type cachedSummary struct {
	text      string
	expiresAt time.Time
}

// SummaryCache is a process-local repositories.SummaryCache with per-entry expiry
type SummaryCache struct {
	mu      sync.Mutex
	entries map[string]cachedSummary
	now     func() time.Time
}

// NewSummaryCache creates an empty cache
func NewSummaryCache() *SummaryCache {
	return &SummaryCache{
		entries: make(map[string]cachedSummary),
		now:     time.Now,
	}
}

func (c *SummaryCache) Get(ctx context.Context, tenderID string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[tenderID]
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		delete(c.entries, tenderID)
		return "", false, nil
	}
	return e.text, true, nil
}

// Set stores a summary; ttl <= 0 keeps it until restart
func (c *SummaryCache) Set(ctx context.Context, tenderID, summary string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := cachedSummary{text: summary}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.entries[tenderID] = e
	return nil
}

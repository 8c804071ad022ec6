package bot

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Cooldown limits how often one user may relay a question.
type Cooldown interface {
	Allow(ctx context.Context, userID string) (bool, error)
}

type noCooldown struct{}

func (noCooldown) Allow(context.Context, string) (bool, error) { return true, nil }

// MemoryCooldown is a per-user token bucket held in process.
type MemoryCooldown struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    time.Duration
}

// NewMemoryCooldown allows one question per user per every.
func NewMemoryCooldown(every time.Duration) *MemoryCooldown {
	return &MemoryCooldown{limiters: make(map[string]*rate.Limiter), every: every}
}

// Allow implements Cooldown.
func (c *MemoryCooldown) Allow(_ context.Context, userID string) (bool, error) {
	c.mu.Lock()
	l, ok := c.limiters[userID]
	if !ok {
		l = rate.NewLimiter(rate.Every(c.every), 1)
		c.limiters[userID] = l
	}
	c.mu.Unlock()
	return l.Allow(), nil
}

// RedisCooldown shares the cooldown across bot replicas with SET NX + TTL.
type RedisCooldown struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCooldown allows one question per user per ttl.
func NewRedisCooldown(client *redis.Client, ttl time.Duration) *RedisCooldown {
	return &RedisCooldown{client: client, ttl: ttl, prefix: "nba-bot:cooldown:"}
}

// Allow implements Cooldown.
func (c *RedisCooldown) Allow(ctx context.Context, userID string) (bool, error) {
	return c.client.SetNX(ctx, c.prefix+userID, 1, c.ttl).Result()
}

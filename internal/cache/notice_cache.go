package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultNoticeTTL is how long a notice stays visible
const DefaultNoticeTTL = 1800 * time.Millisecond

// NoticeCache holds the single transient message shown to the user.
// Posting replaces the current message; it clears itself after the TTL.
type NoticeCache interface {
	Post(ctx context.Context, msg string) error
	Current(ctx context.Context) (string, error)
}

type redisNoticeCache struct {
	client *redis.Client
	scope  string
	ttl    time.Duration
}

// NewRedisNoticeCache creates a notice cache that expires keys in Redis
func NewRedisNoticeCache(client *redis.Client, scope string, ttl time.Duration) NoticeCache {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	return &redisNoticeCache{client: client, scope: scope, ttl: ttl}
}

func (c *redisNoticeCache) key() string {
	return fmt.Sprintf("notice:%s", c.scope)
}

func (c *redisNoticeCache) Post(ctx context.Context, msg string) error {
	if msg == "" {
		return c.client.Del(ctx, c.key()).Err()
	}
	return c.client.Set(ctx, c.key(), msg, c.ttl).Err()
}

func (c *redisNoticeCache) Current(ctx context.Context) (string, error) {
	msg, err := c.client.Get(ctx, c.key()).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return msg, nil
}

type memoryNoticeCache struct {
	mu    sync.Mutex
	msg   string
	seq   uint64
	ttl   time.Duration
	timer *time.Timer
}

// NewMemoryNoticeCache creates an in-process notice cache
func NewMemoryNoticeCache(ttl time.Duration) NoticeCache {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	return &memoryNoticeCache{ttl: ttl}
}

func (c *memoryNoticeCache) Post(_ context.Context, msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.seq++
	c.msg = msg
	if msg == "" {
		return nil
	}

	seq := c.seq
	c.timer = time.AfterFunc(c.ttl, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		// a newer post owns the message now
		if c.seq == seq {
			c.msg = ""
			c.timer = nil
		}
	})
	return nil
}

func (c *memoryNoticeCache) Current(_ context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.msg, nil
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/surendar2011/courseApp/internal/domain/course"
)

const catalogKey = "catalog:courses"

// Catalog is a redis-backed read-through cache for the public course list.
// A nil *Catalog is valid and always misses, so the API runs fine without
// redis configured.
type Catalog struct {
	client *Client
	ttl    time.Duration
}

func NewCatalog(client *Client, ttl time.Duration) *Catalog {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &Catalog{
		client: client,
		ttl:    ttl,
	}
}

func (c *Catalog) Get(ctx context.Context) ([]course.Course, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.Raw().Get(ctx, catalogKey).Bytes()

	if err != nil {
		// redis.Nil is the ordinary miss; anything else degrades to a miss too
		return nil, false
	}

	var courses []course.Course

	err = json.Unmarshal(raw, &courses)

	if err != nil {
		return nil, false
	}

	return courses, true
}

func (c *Catalog) Set(ctx context.Context, courses []course.Course) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(courses)

	if err != nil {
		return
	}

	// best effort: a failed SET just means the next read hits the DB
	_ = c.client.Raw().Set(ctx, catalogKey, raw, c.ttl).Err()
}

// Invalidate drops the cached catalog. Called on every admin course mutation.

func (c *Catalog) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}

	err := c.client.Raw().Del(ctx, catalogKey).Err()

	if err != nil && !errors.Is(err, redis.Nil) {
		// nothing useful to do; the entry expires on its own TTL anyway
		return
	}
}

// Package cache wraps an in-memory TTL store for whole response envelopes.
// Handlers that hit slow upstreams reuse a recent answer for identical
// parameters instead of scraping again.
package cache

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type Cache struct {
	c *gocache.Cache
}

func New(ttl, cleanup time.Duration) *Cache {
	return &Cache{c: gocache.New(ttl, cleanup)}
}

// Key builds a cache key from the resource name and every parameter that
// distinguishes the response.
func Key(resource string, parts ...string) string {
	return resource + ":" + strings.Join(parts, ":")
}

func (c *Cache) Get(key string) (any, bool) {
	return c.c.Get(key)
}

func (c *Cache) Set(key string, value any) {
	c.c.SetDefault(key, value)
}

func (c *Cache) Len() int {
	return c.c.ItemCount()
}

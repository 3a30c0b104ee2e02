package cache

import (
	"fmt"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Tiers trade freshness for load: hot listings turn over quickly, analytics
// can go stale for an hour.
const (
	TierHot    = 5 * time.Minute
	TierWarm   = 15 * time.Minute
	TierCold   = time.Hour
	TierFrozen = 24 * time.Hour
)

type Cache struct {
	c *gocache.Cache
}

func New() *Cache {
	return &Cache{c: gocache.New(TierWarm, 10*time.Minute)}
}

// Key builds a stable cache key from a prefix and request parameters.
// Parameters are sorted so equivalent requests share an entry.
func Key(prefix string, params map[string]string) string {
	if len(params) == 0 {
		return prefix
	}
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k+"="+v)
	}
	sort.Strings(keys)
	return fmt.Sprintf("%s:%s", prefix, strings.Join(keys, "&"))
}

func (c *Cache) Get(key string) (any, bool) {
	return c.c.Get(key)
}

func (c *Cache) Set(key string, v any, ttl time.Duration) {
	c.c.Set(key, v, ttl)
}

// InvalidatePrefix drops every entry whose key starts with the given prefix.
// Called after writes that change listings (captures, admin status updates).
func (c *Cache) InvalidatePrefix(prefix string) int {
	n := 0
	for k := range c.c.Items() {
		if strings.HasPrefix(k, prefix) {
			c.c.Delete(k)
			n++
		}
	}
	return n
}

func (c *Cache) Flush() {
	c.c.Flush()
}

func (c *Cache) Len() int {
	return c.c.ItemCount()
}

package portal

import (
	"sync"
	"time"
)

// View cache for rendered dashboard and public portal payloads. Entries are
// invalidated explicitly on state transitions and expire on a TTL otherwise.

const (
	AdminDashboardKey = "views:admin"
)

func OwnerDashboardKey(companyID string) string {
	return "views:owner:" + companyID
}

func PublicPageKey(slug string) string {
	return "views:public:" + slug
}

type cachedView struct {
	payload  []byte
	cachedAt time.Time
}

type Cache struct {
	store sync.Map // map[string]*cachedView
	ttl   time.Duration
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl}
}

func (c *Cache) Get(key string) ([]byte, bool) {
	val, ok := c.store.Load(key)
	if !ok {
		return nil, false
	}

	view := val.(*cachedView)
	if time.Since(view.cachedAt) > c.ttl {
		c.store.Delete(key)
		return nil, false
	}

	return view.payload, true
}

func (c *Cache) Set(key string, payload []byte) {
	c.store.Store(key, &cachedView{payload: payload, cachedAt: time.Now()})
}

func (c *Cache) Invalidate(keys ...string) {
	for _, key := range keys {
		c.store.Delete(key)
	}
}

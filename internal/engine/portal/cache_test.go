package portal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(time.Minute)

	_, ok := c.Get(AdminDashboardKey)
	assert.False(t, ok)

	c.Set(AdminDashboardKey, []byte(`{"stats":{}}`))
	payload, ok := c.Get(AdminDashboardKey)
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"stats":{}}`), payload)
}

func TestCacheTTLExpiry(t *testing.T) {
	c := NewCache(10 * time.Millisecond)

	c.Set(PublicPageKey("acme-x7f2"), []byte("page"))
	_, ok := c.Get(PublicPageKey("acme-x7f2"))
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = c.Get(PublicPageKey("acme-x7f2"))
	assert.False(t, ok)
}

func TestCacheInvalidate(t *testing.T) {
	c := NewCache(time.Minute)

	c.Set(AdminDashboardKey, []byte("a"))
	c.Set(OwnerDashboardKey("C1"), []byte("b"))
	c.Set(PublicPageKey("acme-x7f2"), []byte("c"))

	c.Invalidate(AdminDashboardKey, OwnerDashboardKey("C1"))

	_, ok := c.Get(AdminDashboardKey)
	assert.False(t, ok)
	_, ok = c.Get(OwnerDashboardKey("C1"))
	assert.False(t, ok)
	_, ok = c.Get(PublicPageKey("acme-x7f2"))
	assert.True(t, ok)
}

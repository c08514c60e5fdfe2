package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cimnine/netbox-sync/netbox/models"
)

func TestMemoryKeysByLiteralReference(t *testing.T) {
	m := NewMemory()

	_, ok := m.Get("http://netbox/api/dcim/sites/1/")
	assert.False(t, ok)

	m.Set("http://netbox/api/dcim/sites/1/", models.Object{"slug": models.String("zrh1")})

	obj, ok := m.Get("http://netbox/api/dcim/sites/1/")
	assert.True(t, ok)
	assert.Equal(t, models.String("zrh1"), obj["slug"])

	_, ok = m.Get("/api/dcim/sites/1/")
	assert.False(t, ok, "references are not normalized")
	assert.Equal(t, 1, m.Len())
}

func TestCacheConfigUseRedis(t *testing.T) {
	assert.False(t, CacheConfig{}.UseRedis())

	c := CacheConfig{}
	c.Redis.Host = "localhost"
	assert.True(t, c.UseRedis())
}

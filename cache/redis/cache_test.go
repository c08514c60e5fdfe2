package redis

import (
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cimnine/netbox-sync/netbox/models"
)

type fakeRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.values[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestCacheRoundTrip(t *testing.T) {
	fake := newFakeRedis()
	c := Cache{Client: fake, Prefix: "netbox-sync", RunID: "run-1", TTL: time.Minute}

	_, ok := c.Get("/api/dcim/sites/1/")
	assert.False(t, ok)

	c.Set("/api/dcim/sites/1/", models.Object{"id": models.Int(1), "slug": models.String("zrh1")})

	key := "netbox-sync;run-1;/api/dcim/sites/1/"
	require.Contains(t, fake.values, key)
	assert.Equal(t, time.Minute, fake.ttls[key])

	obj, ok := c.Get("/api/dcim/sites/1/")
	require.True(t, ok)
	assert.Equal(t, models.String("zrh1"), obj["slug"])
	assert.Equal(t, models.Int(1), obj["id"])
}

func TestCacheIsScopedToRun(t *testing.T) {
	fake := newFakeRedis()
	first := Cache{Client: fake, Prefix: "p", RunID: "a"}
	second := Cache{Client: fake, Prefix: "p", RunID: "b"}

	first.Set("ref", models.Object{"name": models.String("x")})

	_, ok := second.Get("ref")
	assert.False(t, ok)
}

func TestCacheTreatsErrorsAsMiss(t *testing.T) {
	fake := newFakeRedis()
	fake.getErr = errors.New("connection refused")
	c := Cache{Client: fake, Prefix: "p", RunID: "a"}

	_, ok := c.Get("ref")
	assert.False(t, ok)

	fake.getErr = nil
	fake.values["p;a;broken"] = "not json"
	_, ok = c.Get("broken")
	assert.False(t, ok)
}

func TestNewClientDefaultsPort(t *testing.T) {
	client := NewClient(&RedisConfig{Host: "cache.example.com"})
	defer client.Close()

	assert.Equal(t, "cache.example.com:6379", client.Options().Addr)
}

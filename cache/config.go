package cache

import (
	"time"

	"github.com/cimnine/netbox-sync/cache/redis"
)

const (
	DefaultPrefix = "netbox-sync"
	DefaultTTL    = time.Hour
)

// CacheConfig selects where resolved references are kept during a run. An
// empty Redis host keeps them in memory.
type CacheConfig struct {
	Redis  redis.RedisConfig
	Prefix string        `yaml:"prefix"`
	TTL    time.Duration `yaml:"ttl"`
}

// UseRedis reports whether a Redis server is configured.
func (c CacheConfig) UseRedis() bool {
	return c.Redis.Host != ""
}

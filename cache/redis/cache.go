package redis

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis"
	log "github.com/sirupsen/logrus"

	"github.com/cimnine/netbox-sync/netbox/models"
)

// Cmdable is the part of *redis.Client the reference cache needs.
type Cmdable interface {
	Get(key string) *redis.StringCmd
	Set(key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// REDIS STRUCTURE
// -------------------------------------
// key:                        value:
// -------------------------------------
// {prefix};{run};{reference}  {json}
// -------------------------------------

// Cache keeps resolved references in Redis. Keys are scoped to one run, so
// a later run never sees what an earlier one resolved.
type Cache struct {
	Client Cmdable
	Prefix string
	RunID  string
	TTL    time.Duration
}

func (c Cache) Get(ref string) (models.Object, bool) {
	key := c.key(ref)

	rawObj, err := c.Client.Get(key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.WithError(err).Warnf("Can't read '%s' from the cache.", key)
		return nil, false
	}

	obj, err := models.DecodeObject(rawObj)
	if err != nil {
		log.WithError(err).Warnf("Can't reconstruct '%s' from the cache.", key)
		return nil, false
	}

	return obj, true
}

func (c Cache) Set(ref string, obj models.Object) {
	key := c.key(ref)

	objAsJSON, err := json.Marshal(obj)
	if err != nil {
		log.WithError(err).Warnf("Can't convert '%s' for the cache.", ref)
		return
	}

	if err := c.Client.Set(key, objAsJSON, c.TTL).Err(); err != nil {
		log.WithError(err).Warnf("Can't add '%s' to the cache.", key)
	}
}

func (c Cache) key(ref string) string {
	return fmt.Sprintf("%s;%s;%s", c.Prefix, c.RunID, ref)
}

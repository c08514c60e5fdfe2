package redis

import (
	"fmt"

	"github.com/go-redis/redis"
)

const DefaultPort = 6379

func NewClient(config *RedisConfig) *redis.Client {
	port := config.Port
	if port == 0 {
		port = DefaultPort
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, port),
		Password: config.Password,
		DB:       int(config.Database),
	})

	return client
}

package storage

import (
	"fmt"

	"github.com/dhis2-sre/campus-events/pkg/config"
	"github.com/go-redis/redis"
)

// NewRedis connects to the Redis holding the refresh tokens
func NewRedis(c config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Password: c.Password,
		DB:       c.DB,
	})

	if err := client.Ping().Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis at %s:%d: %v", c.Host, c.Port, err)
	}

	return client, nil
}

package config

import (
	"context"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

// ConnectRedis opens the Redis connection used by the goal name index.
func ConnectRedis(ctx context.Context) error {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	client := redis.NewClient(&redis.Options{
		Addr:     Getenv("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return err
	}

	Redis = client
	return nil
}

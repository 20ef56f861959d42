package utils

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

type RedisConfig struct {
	RedisUrl string `env:"REDIS_URL"`
}

// ProvideRedis connects to RedisUrl. Redis is optional: without a url it returns a nil
// client.
func ProvideRedis(config *RedisConfig) (*redis.Client, error) {
	if len(config.RedisUrl) == 0 {
		log.Info().Msg("REDIS_URL not set, running without redis")
		return nil, nil
	}

	options, err := redis.ParseURL(config.RedisUrl)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	_, err = client.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}

	return client, nil
}

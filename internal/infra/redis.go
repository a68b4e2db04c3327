package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/highgarden7/dddorok-admin-backend/internal/app/appconfig"
)

// Redis returns a nil client when no RedisURL is configured.
func Redis(conf *appconfig.Config, lc fx.Lifecycle) (*redis.Client, error) {
	if conf.RedisURL == "" {
		log.Info().
			Str("evt.name", "infra.redis.disabled").
			Msg("redis is not configured: distributed locks fall back to process-local locks")
		return nil, nil
	}

	u, err := redis.ParseURL(conf.RedisURL)
	if err != nil {
		log.Error().Err(err).Msg("infra: redis: failed to parse redis url")
		return nil, err
	}

	client := redis.NewClient(u)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	ping := client.Ping(ctx)
	if ping.Err() != nil {
		log.Error().Err(ping.Err()).Msg("infra: redis: failed to ping database")
		return nil, ping.Err()
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}

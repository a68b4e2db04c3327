package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
)

var (
	ErrDatabaseNotReachable = errors.New("database not reachable")
	ErrRedisNotReachable    = errors.New("redis not reachable")
)

type Health struct {
	DB    *bun.DB
	Redis *redis.Client
}

func NewHealth(db *bun.DB, redis *redis.Client) *Health {
	return &Health{
		DB:    db,
		Redis: redis,
	}
}

func (s *Health) Ping(ctx context.Context) error {
	if err := s.DB.PingContext(ctx); err != nil {
		return errors.Wrap(ErrDatabaseNotReachable, err.Error())
	}

	// redis is optional
	if s.Redis != nil {
		if err := s.Redis.Ping(ctx).Err(); err != nil {
			return errors.Wrap(ErrRedisNotReachable, err.Error())
		}
	}

	return nil
}

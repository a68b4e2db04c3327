package meta

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/bininfo"
	"github.com/highgarden7/dddorok-admin-backend/internal/server/svr"
	"github.com/highgarden7/dddorok-admin-backend/internal/service"
)

type Meta struct {
	fx.In

	HealthService *service.Health
}

func RegisterMeta(meta *svr.Meta, c Meta) {
	meta.Get("/bininfo", c.BinInfo)

	// cache it for a second to keep probes off the database
	meta.Get("/health", cache.New(cache.Config{
		Expiration: time.Second,
	}), c.Health)
}

func (c *Meta) BinInfo(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"name":    bininfo.Name,
		"version": bininfo.Version,
		"build":   bininfo.BuildTime,
	})
}

// Health answers 503 naming the dependency that is down.
func (c *Meta) Health(ctx *fiber.Ctx) error {
	err := c.HealthService.Ping(ctx.UserContext())
	switch {
	case err == nil:
		return ctx.JSON(fiber.Map{
			"status": "ok",
		})
	case errors.Is(err, service.ErrDatabaseNotReachable):
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "degraded",
			"down":   "database",
		})
	case errors.Is(err, service.ErrRedisNotReachable):
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "degraded",
			"down":   "redis",
		})
	default:
		return err
	}
}

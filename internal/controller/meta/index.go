package meta

import (
	"github.com/gofiber/fiber/v2"

	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/bininfo"
)

func RegisterIndex(app *fiber.App) {
	app.Get("/api", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": bininfo.Name,
			"message": "dddorok admin API, see /api/v1",
		})
	})
}

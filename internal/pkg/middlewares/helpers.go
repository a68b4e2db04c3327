package middlewares

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/dderr"
)

func Chained(app *fiber.App, middlewares ...fiber.Handler) {
	for _, middleware := range middlewares {
		app.Use(middleware)
	}
}

// StatusOf reports the HTTP status an error is going to be rendered with.
func StatusOf(err error) (int, bool) {
	var de *dderr.Error
	if errors.As(err, &de) {
		return de.StatusCode, true
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, true
	}
	return 0, false
}

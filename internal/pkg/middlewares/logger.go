package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/flog"
)

const RequestIDHeader = "X-Dddorok-Request-ID"

func Logger(app *fiber.App) {
	Chained(
		app,
		flog.NewHandlerMiddleware(log.With().Logger()),
		flog.RequestIDHandler("request_id", RequestIDHeader),
		flog.FieldsHandler(
			flog.RemoteAddr("ip"),
			flog.Method("method"),
			flog.Path("url"),
			flog.UserAgent("user_agent"),
		),
		requestLogger(),
	)
}

func requestLogger() fiber.Handler {
	return flog.AccessHandler(func(c *fiber.Ctx, err error, duration time.Duration) {
		// the error handler has not rendered yet, so the status is still the default
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if code, ok := StatusOf(err); ok {
				status = code
			}
		}
		flog.InfoFrom(c).
			Str("component", "httpreq").
			Int("status", status).
			Int("size", len(c.Response().Body())).
			Dur("duration", duration).
			Msg("received request")
	})
}

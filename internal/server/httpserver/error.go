package httpserver

import (
	"errors"
	"strconv"

	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/dderr"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/flog"
)

func handleCustomError(ctx *fiber.Ctx, e *dderr.Error) error {
	flog.WarnFrom(ctx).
		Err(e).
		Str("code", e.ErrorCode).
		Msg(e.Message)

	body := fiber.Map{
		"code":    e.ErrorCode,
		"message": e.Message,
	}
	if e.Extras != nil {
		for k, v := range *e.Extras {
			body[k] = v
		}
	}

	return ctx.Status(e.StatusCode).JSON(body)
}

func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var de *dderr.Error
	if errors.As(err, &de) {
		return handleCustomError(ctx, de)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		// routing and body parsing errors
		return handleCustomError(ctx, dderr.New(fe.Code, "UNKNOWN_ERROR", fe.Message))
	}

	log.Error().
		Stack().
		Err(err).
		Str("method", ctx.Method()).
		Str("path", ctx.Path()).
		Msg("internal server error")

	if hub := fibersentry.GetHubFromContext(ctx); hub != nil {
		hub.Scope().SetTag("status", strconv.Itoa(dderr.ErrInternalError.StatusCode))
		hub.CaptureException(err)
	}

	// the cause stays in the logs
	return handleCustomError(ctx, dderr.ErrInternalError)
}

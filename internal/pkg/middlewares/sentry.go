package middlewares

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/flog"
)

// EnrichSentry tags the request hub with the request id and opens a
// transaction continuing an incoming sentry-trace header.
func EnrichSentry() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if hub := fibersentry.GetHubFromContext(c); hub != nil {
			if id, ok := c.Locals(flog.LocalsKeyRequestID).(string); ok {
				hub.Scope().SetTag("request_id", id)
			}
		}

		var r http.Request
		if err := fasthttpadaptor.ConvertRequest(c.Context(), &r, true); err != nil {
			return err
		}
		span := sentry.StartSpan(c.UserContext(), "http.server",
			sentry.WithTransactionName(c.Method()+" "+c.Path()),
			sentry.ContinueFromRequest(&r))
		defer span.Finish()
		c.SetUserContext(span.Context())

		return c.Next()
	}
}

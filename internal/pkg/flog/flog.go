// Package flog binds a zerolog logger to every fiber request and decorates it
// with request scoped fields.
package flog

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
)

// LocalsKeyRequestID is the fiber.Ctx locals key the request id string is stored under.
const LocalsKeyRequestID = "request_id"

// FromFiberCtx gets the logger bound to the request.
func FromFiberCtx(c *fiber.Ctx) *zerolog.Logger {
	return zerolog.Ctx(c.UserContext())
}

// NewHandlerMiddleware binds a copy of base to the user context of each request.
func NewHandlerMiddleware(base zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// a fresh copy per request, UpdateContext mutates it
		l := base.With().Logger()
		c.SetUserContext(l.WithContext(c.UserContext()))
		return c.Next()
	}
}

// Field appends one request attribute to a logger context.
type Field func(lc zerolog.Context, c *fiber.Ctx) zerolog.Context

func RemoteAddr(key string) Field {
	return func(lc zerolog.Context, c *fiber.Ctx) zerolog.Context { return lc.Str(key, c.IP()) }
}

func Method(key string) Field {
	return func(lc zerolog.Context, c *fiber.Ctx) zerolog.Context { return lc.Str(key, c.Method()) }
}

func Path(key string) Field {
	return func(lc zerolog.Context, c *fiber.Ctx) zerolog.Context { return lc.Str(key, c.Path()) }
}

func UserAgent(key string) Field {
	return func(lc zerolog.Context, c *fiber.Ctx) zerolog.Context { return lc.Str(key, c.Get(fiber.HeaderUserAgent)) }
}

// FieldsHandler adds all fields to the request logger in one update.
func FieldsHandler(fields ...Field) fiber.Handler {
	return func(c *fiber.Ctx) error {
		FromFiberCtx(c).UpdateContext(func(lc zerolog.Context) zerolog.Context {
			for _, f := range fields {
				lc = f(lc, c)
			}
			return lc
		})
		return c.Next()
	}
}

type idKey struct{}

// IDFromCtx returns the request id carried by ctx, if any.
func IDFromCtx(ctx context.Context) (xid.ID, bool) {
	id, ok := ctx.Value(idKey{}).(xid.ID)
	return id, ok
}

func IDFromFiberCtx(c *fiber.Ctx) (xid.ID, bool) {
	if c == nil {
		return xid.NilID(), false
	}
	return IDFromCtx(c.UserContext())
}

// RequestIDHandler assigns every request an xid. A well-formed id sent in
// header by an upstream proxy is kept. The id is put on the logger under
// fieldKey, into the locals, and echoed in header.
func RequestIDHandler(fieldKey, header string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := IDFromFiberCtx(c)
		if !ok {
			if parsed, err := xid.FromString(c.Get(header)); err == nil {
				id = parsed
			} else {
				id = xid.New()
			}
			c.SetUserContext(context.WithValue(c.UserContext(), idKey{}, id))
		}

		s := id.String()
		c.Locals(LocalsKeyRequestID, s)
		FromFiberCtx(c).UpdateContext(func(lc zerolog.Context) zerolog.Context {
			return lc.Str(fieldKey, s)
		})
		c.Set(header, s)
		return c.Next()
	}
}

// AccessHandler calls f after each request with the time the rest of the chain took.
func AccessHandler(f func(c *fiber.Ctx, err error, duration time.Duration)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		f(c, err, time.Since(start))
		return err
	}
}

func InfoFrom(c *fiber.Ctx) *zerolog.Event {
	return FromFiberCtx(c).Info()
}

func WarnFrom(c *fiber.Ctx) *zerolog.Event {
	return FromFiberCtx(c).Warn()
}

func ErrorFrom(c *fiber.Ctx) *zerolog.Event {
	return FromFiberCtx(c).Error()
}

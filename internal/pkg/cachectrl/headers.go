// Package cachectrl sets HTTP caching headers. Admin payloads change on every
// edit and carry unpublished content, so nothing under the admin groups is
// cacheable by browsers or intermediaries.
package cachectrl

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// OptOut marks the response as not storable anywhere.
func OptOut(ctx *fiber.Ctx) {
	ctx.Set(fiber.HeaderCacheControl, "no-cache, no-store, must-revalidate")
	ctx.Set(fiber.HeaderPragma, "no-cache")
	ctx.Set(fiber.HeaderExpires, "0")
}

// Private lets only the requesting client reuse the response for maxAge.
func Private(ctx *fiber.Ctx, maxAge time.Duration) {
	ctx.Set(fiber.HeaderCacheControl, "private, max-age="+strconv.Itoa(int(maxAge.Seconds())))
	ctx.Response().Header.Del(fiber.HeaderPragma)
	ctx.Response().Header.Del(fiber.HeaderExpires)
}

// NoStore applies OptOut to every response of the routes it guards. Handlers
// may still override it afterwards.
func NoStore() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		OptOut(ctx)
		return ctx.Next()
	}
}

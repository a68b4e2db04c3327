package cachectrl

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoStore(t *testing.T) {
	app := fiber.New()
	app.Use(NoStore())
	app.Get("/plain", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/private", func(c *fiber.Ctx) error {
		Private(c, time.Minute)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/plain", nil))
	require.NoError(t, err)
	assert.Equal(t, "no-cache, no-store, must-revalidate", resp.Header.Get(fiber.HeaderCacheControl))
	assert.Equal(t, "no-cache", resp.Header.Get(fiber.HeaderPragma))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/private", nil))
	require.NoError(t, err)
	assert.Equal(t, "private, max-age=60", resp.Header.Get(fiber.HeaderCacheControl))
	assert.Empty(t, resp.Header.Get(fiber.HeaderPragma))
}

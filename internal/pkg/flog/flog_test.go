package flog

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const header = "X-Test-Request-ID"

func newApp(buf *bytes.Buffer) *fiber.App {
	app := fiber.New()
	app.Use(
		NewHandlerMiddleware(zerolog.New(buf)),
		RequestIDHandler("request_id", header),
		FieldsHandler(Method("method"), Path("url")),
	)
	app.Get("/ping", func(c *fiber.Ctx) error {
		InfoFrom(c).Msg("pong")
		return c.SendString(c.Locals(LocalsKeyRequestID).(string))
	})
	return app
}

func TestRequestIDHandler(t *testing.T) {
	t.Run("generates", func(t *testing.T) {
		var buf bytes.Buffer
		res, err := newApp(&buf).Test(httptest.NewRequest("GET", "/ping", nil))
		require.NoError(t, err)

		id := res.Header.Get(header)
		_, err = xid.FromString(id)
		assert.NoError(t, err)

		line := buf.String()
		assert.Equal(t, id, gjson.Get(line, "request_id").String())
		assert.Equal(t, "GET", gjson.Get(line, "method").String())
		assert.Equal(t, "/ping", gjson.Get(line, "url").String())
	})

	t.Run("keeps upstream id", func(t *testing.T) {
		var buf bytes.Buffer
		upstream := xid.New().String()
		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set(header, upstream)

		res, err := newApp(&buf).Test(req)
		require.NoError(t, err)
		assert.Equal(t, upstream, res.Header.Get(header))
	})

	t.Run("replaces malformed id", func(t *testing.T) {
		var buf bytes.Buffer
		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set(header, "not-an-xid")

		res, err := newApp(&buf).Test(req)
		require.NoError(t, err)
		assert.NotEqual(t, "not-an-xid", res.Header.Get(header))
	})
}

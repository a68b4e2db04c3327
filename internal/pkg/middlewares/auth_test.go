package middlewares

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/highgarden7/dddorok-admin-backend/internal/app/appconfig"
)

func newAuthApp(key string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status, _ := StatusOf(err)
			return c.SendStatus(status)
		},
	})
	app.Use(AdminKey(&appconfig.Config{ConfigSpec: appconfig.ConfigSpec{AdminKey: key}}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	return app
}

func TestAdminKey(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		header string
		want   int
	}{
		{"disabled", "", "", fiber.StatusNoContent},
		{"missing", "secret", "", fiber.StatusUnauthorized},
		{"wrong", "secret", "Bearer nope", fiber.StatusUnauthorized},
		{"wrong scheme", "secret", "Basic secret", fiber.StatusUnauthorized},
		{"valid", "secret", "Bearer secret", fiber.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			res, err := newAuthApp(tt.key).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.StatusCode)
		})
	}
}

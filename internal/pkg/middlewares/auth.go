package middlewares

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
	"github.com/rs/zerolog/log"

	"github.com/highgarden7/dddorok-admin-backend/internal/app/appconfig"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/dderr"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/flog"
)

var ErrUnauthorized = dderr.New(fiber.StatusUnauthorized, "UNAUTHORIZED", "a valid admin key is required")

// AdminKey requires "Authorization: Bearer <key>" matching conf.AdminKey.
// An empty AdminKey lets every request through.
func AdminKey(conf *appconfig.Config) fiber.Handler {
	if conf.AdminKey == "" {
		log.Warn().
			Str("evt.name", "auth.disabled").
			Msg("DDDOROK_ADMIN_KEY is empty, the admin API is not authenticated")
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	expected := []byte(conf.AdminKey)
	return keyauth.New(keyauth.Config{
		AuthScheme: "Bearer",
		Validator: func(c *fiber.Ctx, key string) (bool, error) {
			if subtle.ConstantTimeCompare([]byte(key), expected) == 1 {
				return true, nil
			}
			return false, keyauth.ErrMissingOrMalformedAPIKey
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			flog.WarnFrom(c).
				Str("evt.name", "auth.rejected").
				Msg("rejected request without a valid admin key")
			return ErrUnauthorized
		},
	})
}

package svr

import (
	"github.com/gofiber/fiber/v2"

	"github.com/highgarden7/dddorok-admin-backend/internal/app/appconfig"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/cachectrl"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/middlewares"
)

// V1 is the authenticated admin content API.
type V1 struct {
	fiber.Router
}

// Meta carries unauthenticated probes.
type Meta struct {
	fiber.Router
}

// Admin carries authenticated operational endpoints.
type Admin struct {
	fiber.Router
}

func CreateEndpointGroups(app *fiber.App, conf *appconfig.Config) (*V1, *Meta, *Admin) {
	auth := middlewares.AdminKey(conf)
	noStore := cachectrl.NoStore()

	v1 := app.Group("/api/v1", noStore, auth)
	meta := app.Group("/api/_")
	admin := app.Group("/api/_/admin", noStore, auth)

	return &V1{Router: v1}, &Meta{Router: meta}, &Admin{Router: admin}
}

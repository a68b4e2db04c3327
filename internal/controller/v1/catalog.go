package v1

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"github.com/highgarden7/dddorok-admin-backend/internal/server/svr"
	"github.com/highgarden7/dddorok-admin-backend/internal/service"
	"github.com/highgarden7/dddorok-admin-backend/internal/util/rekuest"
)

type Catalog struct {
	fx.In

	CatalogService *service.Catalog
}

func RegisterCatalog(v1 *svr.V1, c Catalog) {
	v1.Get("/measurement-rule-item/code", c.GetCodes)
}

// GetCodes lists master catalog codes, optionally of one category.
func (c *Catalog) GetCodes(ctx *fiber.Ctx) error {
	category := strings.TrimSpace(ctx.Query("category"))
	if err := rekuest.ValidVar(category, "max=64"); err != nil {
		return err
	}

	codes, err := c.CatalogService.GetCodes(ctx.UserContext(), category)
	if err != nil {
		return err
	}

	return ctx.JSON(codes)
}

package meta

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"github.com/highgarden7/dddorok-admin-backend/internal/model/types"
	"github.com/highgarden7/dddorok-admin-backend/internal/server/svr"
	"github.com/highgarden7/dddorok-admin-backend/internal/service"
)

type AdminController struct {
	fx.In

	ResourceReclaimer *service.ResourceReclaimer
}

func RegisterAdmin(admin *svr.Admin, c AdminController) {
	admin.Post("/reclaim", c.Reclaim)
}

// Reclaim runs a resource sweep synchronously and returns its report. A sweep
// already in progress makes this one a skipped no-op.
func (c *AdminController) Reclaim(ctx *fiber.Ctx) error {
	report, err := c.ResourceReclaimer.RunNow(ctx.UserContext(), types.ReclaimTriggerManual)
	if err != nil {
		return err
	}

	return ctx.JSON(report)
}

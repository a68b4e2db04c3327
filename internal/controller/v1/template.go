package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"github.com/highgarden7/dddorok-admin-backend/internal/model/types"
	"github.com/highgarden7/dddorok-admin-backend/internal/server/svr"
	"github.com/highgarden7/dddorok-admin-backend/internal/service"
	"github.com/highgarden7/dddorok-admin-backend/internal/util/rekuest"
)

type Template struct {
	fx.In

	TemplateService *service.Template
}

func RegisterTemplate(v1 *svr.V1, c Template) {
	v1.Post("/template", c.CreateTemplate)
	v1.Get("/template/list", c.GetTemplates)
	v1.Get("/template/:id", c.GetTemplateByID)
	v1.Patch("/template/:id", c.UpdateTemplate)
	v1.Delete("/template/:id", c.DeleteTemplate)
	v1.Patch("/template/:id/publish", c.UpdatePublishStatus)
	v1.Get("/template/:id/measurement-value", c.GetMeasurementValues)
	v1.Patch("/template/:id/measurement-value", c.UpdateMeasurementValues)
}

func (c *Template) CreateTemplate(ctx *fiber.Ctx) error {
	var request types.TemplateRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	template, err := c.TemplateService.CreateTemplate(ctx.UserContext(), &request)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(template)
}

func (c *Template) GetTemplates(ctx *fiber.Ctx) error {
	templates, err := c.TemplateService.GetTemplates(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(templates)
}

func (c *Template) GetTemplateByID(ctx *fiber.Ctx) error {
	id, err := rekuest.ValidUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	template, err := c.TemplateService.GetTemplateByID(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(template)
}

func (c *Template) UpdateTemplate(ctx *fiber.Ctx) error {
	id, err := rekuest.ValidUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	var request types.TemplateUpdateRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	template, err := c.TemplateService.UpdateTemplate(ctx.UserContext(), id, &request)
	if err != nil {
		return err
	}

	return ctx.JSON(template)
}

func (c *Template) DeleteTemplate(ctx *fiber.Ctx) error {
	id, err := rekuest.ValidUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.TemplateService.DeleteTemplate(ctx.UserContext(), id); err != nil {
		return err
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *Template) UpdatePublishStatus(ctx *fiber.Ctx) error {
	id, err := rekuest.ValidUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	var request types.TemplatePublishRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	template, err := c.TemplateService.UpdatePublishStatus(ctx.UserContext(), id, *request.IsPublished)
	if err != nil {
		return err
	}

	return ctx.JSON(template)
}

func (c *Template) GetMeasurementValues(ctx *fiber.Ctx) error {
	id, err := rekuest.ValidUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	values, err := c.TemplateService.GetMeasurementValues(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(values)
}

func (c *Template) UpdateMeasurementValues(ctx *fiber.Ctx) error {
	id, err := rekuest.ValidUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	var request types.MeasurementValuesRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	values, err := c.TemplateService.UpdateMeasurementValues(ctx.UserContext(), id, &request)
	if err != nil {
		return err
	}

	return ctx.JSON(values)
}

package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"github.com/highgarden7/dddorok-admin-backend/internal/model/types"
	"github.com/highgarden7/dddorok-admin-backend/internal/server/svr"
	"github.com/highgarden7/dddorok-admin-backend/internal/service"
	"github.com/highgarden7/dddorok-admin-backend/internal/util/rekuest"
)

type MeasurementRule struct {
	fx.In

	MeasurementRuleService *service.MeasurementRule
	TemplateService        *service.Template
}

func RegisterMeasurementRule(v1 *svr.V1, c MeasurementRule) {
	v1.Post("/measurement-rule", c.CreateRule)
	v1.Get("/measurement-rule/list", c.GetRules)
	v1.Get("/measurement-rule/:id", c.GetRuleByID)
	v1.Patch("/measurement-rule/:id", c.UpdateRule)
	v1.Delete("/measurement-rule/:id", c.DeleteRule)
	v1.Get("/measurement-rule/:id/template/list", c.GetTemplatesByRuleID)
}

func (c *MeasurementRule) CreateRule(ctx *fiber.Ctx) error {
	var request types.MeasurementRuleRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	rule, err := c.MeasurementRuleService.CreateRule(ctx.UserContext(), &request)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(rule)
}

func (c *MeasurementRule) GetRules(ctx *fiber.Ctx) error {
	rules, err := c.MeasurementRuleService.GetRules(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(rules)
}

func (c *MeasurementRule) GetRuleByID(ctx *fiber.Ctx) error {
	id, err := rekuest.ValidUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	rule, err := c.MeasurementRuleService.GetRuleByID(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(rule)
}

func (c *MeasurementRule) UpdateRule(ctx *fiber.Ctx) error {
	id, err := rekuest.ValidUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	var request types.MeasurementRuleRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	rule, err := c.MeasurementRuleService.UpdateRule(ctx.UserContext(), id, &request)
	if err != nil {
		return err
	}

	return ctx.JSON(rule)
}

func (c *MeasurementRule) DeleteRule(ctx *fiber.Ctx) error {
	id, err := rekuest.ValidUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.MeasurementRuleService.DeleteRule(ctx.UserContext(), id); err != nil {
		return err
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *MeasurementRule) GetTemplatesByRuleID(ctx *fiber.Ctx) error {
	id, err := rekuest.ValidUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	templates, err := c.TemplateService.GetTemplatesByRuleID(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(templates)
}

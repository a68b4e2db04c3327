package v1

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	"github.com/highgarden7/dddorok-admin-backend/internal/app/appconfig"
	"github.com/highgarden7/dddorok-admin-backend/internal/model/types"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/dderr"
	"github.com/highgarden7/dddorok-admin-backend/internal/server/svr"
	"github.com/highgarden7/dddorok-admin-backend/internal/service"
	"github.com/highgarden7/dddorok-admin-backend/internal/util/rekuest"
)

const svgFormField = "file"

type ChartType struct {
	fx.In

	Config           *appconfig.Config
	ChartTypeService *service.ChartType
}

func RegisterChartType(v1 *svr.V1, c ChartType) {
	v1.Post("/chart-type", c.CreateChartType)
	v1.Post("/chart-type/upload-svg", c.UploadSvg)
	v1.Get("/chart-type/list", c.GetChartTypes)
	v1.Get("/chart-type/:id", c.GetChartTypeByID)
	v1.Delete("/chart-type/:id", c.DeleteChartType)
	v1.Patch("/chart-type/:id/measurement-code-maps", c.UpdateMeasurementCodeMaps)
}

func (c *ChartType) CreateChartType(ctx *fiber.Ctx) error {
	var request types.ChartTypeRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	chartType, err := c.ChartTypeService.CreateChartType(ctx.UserContext(), &request)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(chartType)
}

// UploadSvg accepts a multipart form with the SVG under the "file" field.
func (c *ChartType) UploadSvg(ctx *fiber.Ctx) error {
	fh, err := ctx.FormFile(svgFormField)
	if err != nil {
		return dderr.ErrValidation.Msg("multipart field %q with the svg file is required", svgFormField)
	}

	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "failed to open uploaded file")
	}
	defer f.Close()

	// one byte past the limit is enough for the service to reject it
	body, err := io.ReadAll(io.LimitReader(f, int64(c.Config.SvgMaxBytes)+1))
	if err != nil {
		return errors.Wrap(err, "failed to read uploaded file")
	}

	res, err := c.ChartTypeService.UploadSvg(ctx.UserContext(), &types.SvgUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Body:        body,
	})
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *ChartType) GetChartTypes(ctx *fiber.Ctx) error {
	chartTypes, err := c.ChartTypeService.GetChartTypes(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(chartTypes)
}

func (c *ChartType) GetChartTypeByID(ctx *fiber.Ctx) error {
	id, err := rekuest.ValidUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	chartType, err := c.ChartTypeService.GetChartTypeByID(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(chartType)
}

func (c *ChartType) DeleteChartType(ctx *fiber.Ctx) error {
	id, err := rekuest.ValidUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.ChartTypeService.DeleteChartType(ctx.UserContext(), id); err != nil {
		return err
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *ChartType) UpdateMeasurementCodeMaps(ctx *fiber.Ctx) error {
	id, err := rekuest.ValidUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	var request types.MeasurementCodeMapsRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	chartType, err := c.ChartTypeService.UpdateMeasurementCodeMaps(ctx.UserContext(), id, &request)
	if err != nil {
		return err
	}

	return ctx.JSON(chartType)
}

package service_test

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/highgarden7/dddorok-admin-backend/internal/model"
	"github.com/highgarden7/dddorok-admin-backend/internal/model/types"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/dderr"
	"github.com/highgarden7/dddorok-admin-backend/internal/service"
)

func codeMapPairs(maps []*model.ChartTypeCodeMap) []string {
	return lo.Map(maps, func(m *model.ChartTypeCodeMap, _ int) string { return m.MeasurementCode + ":" + m.PathID })
}

func TestUploadSvgValidation(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name   string
		upload *types.SvgUpload
		want   error
	}{
		{"empty", &types.SvgUpload{Filename: "a.svg", ContentType: service.SvgContentType}, dderr.ErrValidation},
		{"png", &types.SvgUpload{Filename: "a.png", ContentType: "image/png", Body: []byte("x")}, dderr.ErrValidation},
		{"content type with parameters", &types.SvgUpload{Filename: "a.svg", ContentType: "image/svg+xml; charset=utf-8", Body: []byte("<svg/>")}, dderr.ErrValidation},
		{"too large", &types.SvgUpload{
			Filename:    "a.svg",
			ContentType: service.SvgContentType,
			Body:        bytes.Repeat([]byte("a"), e.Config.SvgMaxBytes+1),
		}, dderr.ErrPayloadTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.ChartTypes.UploadSvg(e.ctx, tt.upload)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Zero(t, e.count(t, (*model.Resource)(nil)))
	objects, err := e.Memory.List(e.ctx, "")
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestUploadSvg(t *testing.T) {
	e := newEnv(t)

	res := e.uploadSvg(t)

	key := service.SvgKey(res.ResourceID)
	assert.Equal(t, "public/chart-svg/"+res.ResourceID+".svg", key)
	assert.Equal(t, "https://cdn.test/"+key, res.URL)

	body, contentType, ok := e.Memory.Get(key)
	require.True(t, ok)
	assert.Equal(t, service.SvgContentType, contentType)
	assert.Contains(t, string(body), `id="p1"`)

	resource, err := e.ResourceRepo.GetResourceByID(e.ctx, res.ResourceID)
	require.NoError(t, err)
	assert.Equal(t, key, resource.RscURL)
	assert.Equal(t, "front.svg", resource.Name)
	assert.Equal(t, int64(len(body)), resource.Length)
	assert.Equal(t, model.ResourceDomainChartType, resource.Domain)
}

func TestUploadSvgBlobFailure(t *testing.T) {
	e := newEnv(t)
	fs := &faultyStore{Store: e.Memory, failPut: true}
	chartTypes := service.NewChartType(e.DB, e.Config, e.ChartTypeRepo, e.ResourceRepo, e.TemplateChartTypeMapRepo, e.Catalog, fs)

	_, err := chartTypes.UploadSvg(e.ctx, &types.SvgUpload{
		Filename:    "front.svg",
		ContentType: service.SvgContentType,
		Body:        []byte("<svg/>"),
	})
	require.ErrorIs(t, err, errInjected)
	assert.Zero(t, e.count(t, (*model.Resource)(nil)), "resource row must roll back with the blob write")
}

func TestCreateChartType(t *testing.T) {
	e := newEnv(t)
	upload := e.uploadSvg(t)

	chartType, err := e.ChartTypes.CreateChartType(e.ctx, &types.ChartTypeRequest{
		Name:           "front body",
		CategoryLarge:  "TOP",
		CategoryMedium: "SWEATER",
		Section:        "BODY",
		DetailType:     "RAGLAN",
		SvgFileID:      upload.ResourceID,
		MeasurementCodeMaps: []*types.MeasurementCodeMapRequest{
			{MeasurementCode: "BODY_LENGTH", SvgPathIDs: []string{"p1", "p2", "p1"}},
			{MeasurementCode: "HOOD_DEPTH", SvgPathIDs: []string{"p3"}},
			{MeasurementCode: "CHEST_WIDTH", SvgPathIDs: []string{"p4"}},
		},
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"BODY_LENGTH:p1", "BODY_LENGTH:p2", "CHEST_WIDTH:p4"}, codeMapPairs(chartType.CodeMaps),
		"unknown codes are dropped and repeated paths collapse")
	assert.Equal(t, upload.URL, chartType.SvgFileURL)
	assert.Empty(t, chartType.Templates)
}

func TestCreateChartTypeRejections(t *testing.T) {
	e := newEnv(t)
	e.createChartType(t, "RAGLAN")

	t.Run("duplicate category", func(t *testing.T) {
		upload := e.uploadSvg(t)
		_, err := e.ChartTypes.CreateChartType(e.ctx, &types.ChartTypeRequest{
			Name: "another", CategoryLarge: "TOP", CategoryMedium: "SWEATER", Section: "BODY", DetailType: "RAGLAN",
			SvgFileID: upload.ResourceID,
		})
		require.ErrorIs(t, err, dderr.ErrDuplicateEntity)

		var de *dderr.Error
		require.ErrorAs(t, err, &de)
		assert.Equal(t, model.ConstraintChartTypeCategory, (*de.Extras)["constraint"])
	})

	t.Run("unknown svg resource", func(t *testing.T) {
		_, err := e.ChartTypes.CreateChartType(e.ctx, &types.ChartTypeRequest{
			Name: "another", CategoryLarge: "TOP", CategoryMedium: "SWEATER", Section: "BODY", DetailType: "SET_IN",
			SvgFileID: uuid.NewString(),
		})
		assert.ErrorIs(t, err, dderr.ErrInvalidReference)
	})

	assert.Equal(t, 1, e.count(t, (*model.ChartType)(nil)))
}

func TestUpdateMeasurementCodeMaps(t *testing.T) {
	e := newEnv(t)
	chartType := e.createChartType(t, "RAGLAN")

	t.Run("replaces", func(t *testing.T) {
		updated, err := e.ChartTypes.UpdateMeasurementCodeMaps(e.ctx, chartType.ID, &types.MeasurementCodeMapsRequest{
			MeasurementCodeMaps: []*types.MeasurementCodeMapRequest{
				{MeasurementCode: "CHEST_WIDTH", SvgPathIDs: []string{"p7", "p8"}},
			},
		})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"CHEST_WIDTH:p7", "CHEST_WIDTH:p8"}, codeMapPairs(updated.CodeMaps))
		assert.False(t, updated.UpdatedAt.Before(chartType.UpdatedAt))
	})

	t.Run("unknown code leaves maps unchanged", func(t *testing.T) {
		_, err := e.ChartTypes.UpdateMeasurementCodeMaps(e.ctx, chartType.ID, &types.MeasurementCodeMapsRequest{
			MeasurementCodeMaps: []*types.MeasurementCodeMapRequest{
				{MeasurementCode: "BODY_LENGTH", SvgPathIDs: []string{"p1"}},
				{MeasurementCode: "HOOD_DEPTH", SvgPathIDs: []string{"p2"}},
			},
		})
		require.ErrorIs(t, err, dderr.ErrInvalidReference)

		got, err := e.ChartTypes.GetChartTypeByID(e.ctx, chartType.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"CHEST_WIDTH:p7", "CHEST_WIDTH:p8"}, codeMapPairs(got.CodeMaps))
	})

	t.Run("empty list clears", func(t *testing.T) {
		updated, err := e.ChartTypes.UpdateMeasurementCodeMaps(e.ctx, chartType.ID, &types.MeasurementCodeMapsRequest{})
		require.NoError(t, err)
		assert.Empty(t, updated.CodeMaps)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := e.ChartTypes.UpdateMeasurementCodeMaps(e.ctx, uuid.NewString(), &types.MeasurementCodeMapsRequest{})
		assert.ErrorIs(t, err, dderr.ErrNotFound)
	})
}

func TestDeleteChartType(t *testing.T) {
	e := newEnv(t)
	rule := e.createRule(t, "pullover basic", "PULLOVER", "BODY_LENGTH")
	linked := e.createChartType(t, "RAGLAN")
	free := e.createChartType(t, "SET_IN")
	e.createTemplate(t, rule.ID, &types.TemplateChartTypeRequest{ChartTypeID: linked.ID, Order: 1})

	assert.ErrorIs(t, e.ChartTypes.DeleteChartType(e.ctx, linked.ID), dderr.ErrReferentialConflict)
	assert.ErrorIs(t, e.ChartTypes.DeleteChartType(e.ctx, uuid.NewString()), dderr.ErrNotFound)

	require.NoError(t, e.ChartTypes.DeleteChartType(e.ctx, free.ID))
	_, err := e.ChartTypes.GetChartTypeByID(e.ctx, free.ID)
	assert.ErrorIs(t, err, dderr.ErrNotFound)

	_, err = e.ResourceRepo.GetResourceByID(e.ctx, free.SvgFileID)
	assert.NoError(t, err, "the svg resource is left for the reclaimer")
	assert.Equal(t, 1, e.count(t, (*model.ChartTypeCodeMap)(nil)), "code maps of the deleted chart type cascade")
}

func TestGetChartTypes(t *testing.T) {
	e := newEnv(t)
	rule := e.createRule(t, "pullover basic", "PULLOVER", "BODY_LENGTH")
	linked := e.createChartType(t, "RAGLAN")
	e.createChartType(t, "SET_IN")
	template := e.createTemplate(t, rule.ID, &types.TemplateChartTypeRequest{ChartTypeID: linked.ID, Order: 1})

	chartTypes, err := e.ChartTypes.GetChartTypes(e.ctx)
	require.NoError(t, err)
	require.Len(t, chartTypes, 2)

	byType := lo.KeyBy(chartTypes, func(c *types.ChartTypeSummary) string { return c.DetailType })
	assert.Equal(t, 1, byType["RAGLAN"].TemplateCount)
	assert.Equal(t, 0, byType["SET_IN"].TemplateCount)
	assert.Len(t, byType["SET_IN"].MeasurementCodeMaps, 1)

	detail, err := e.ChartTypes.GetChartTypeByID(e.ctx, linked.ID)
	require.NoError(t, err)
	require.Len(t, detail.Templates, 1)
	assert.Equal(t, template.ID, detail.Templates[0].ID)
	assert.Equal(t, template.Name, detail.Templates[0].Name)
}

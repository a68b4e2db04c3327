package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/highgarden7/dddorok-admin-backend/internal/model"
	"github.com/highgarden7/dddorok-admin-backend/internal/model/types"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/dderr"
)

func chartTypeIDs(refs []*types.TemplateChartTypeRef) []string {
	return lo.Map(refs, func(r *types.TemplateChartTypeRef, _ int) string { return r.ID })
}

func TestCreateTemplate(t *testing.T) {
	e := newEnv(t)
	rule := e.createRule(t, "pullover basic", "PULLOVER", "CHEST_WIDTH", "BODY_LENGTH")
	back := e.createChartType(t, "RAGLAN")
	front := e.createChartType(t, "SET_IN")

	template := e.createTemplate(t, rule.ID,
		&types.TemplateChartTypeRequest{ChartTypeID: back.ID, Order: 2},
		&types.TemplateChartTypeRequest{ChartTypeID: front.ID, Order: 1},
	)

	assert.False(t, template.IsPublished)
	assert.Equal(t, []string{"TOP_DOWN"}, template.ConstructionMethods)
	assert.Equal(t, rule.ID, template.MeasurementRule.ID)
	assert.Len(t, template.MeasurementRule.Items, 2)
	assert.Equal(t, []string{front.ID, back.ID}, chartTypeIDs(template.ChartTypes), "chart types come back in order")
	assert.Equal(t, front.Name, template.ChartTypes[0].Name)

	values, err := e.Templates.GetMeasurementValues(e.ctx, template.ID)
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, "CHEST_WIDTH", values[0].Code)
	assert.Equal(t, "Chest width", values[0].Label)
	assert.Equal(t, "BODY_LENGTH", values[1].Code)
	for _, v := range values {
		assert.False(t, v.RangeToggle)
		assert.False(t, v.Size50To53.Valid)
		assert.False(t, v.Min.Valid)
	}
}

func TestCreateTemplateRejections(t *testing.T) {
	e := newEnv(t)
	rule := e.createRule(t, "pullover basic", "PULLOVER", "BODY_LENGTH")
	chartType := e.createChartType(t, "RAGLAN")

	base := func(chartTypes ...*types.TemplateChartTypeRequest) *types.TemplateRequest {
		return &types.TemplateRequest{
			Name: "t", NeedleType: "KNITTING", PatternStyle: "TEXT",
			MeasurementRuleID: rule.ID, ChartTypes: chartTypes,
		}
	}

	t.Run("unknown rule", func(t *testing.T) {
		req := base()
		req.MeasurementRuleID = uuid.NewString()
		_, err := e.Templates.CreateTemplate(e.ctx, req)
		assert.ErrorIs(t, err, dderr.ErrNotFound)
	})

	t.Run("duplicate chart type", func(t *testing.T) {
		_, err := e.Templates.CreateTemplate(e.ctx, base(
			&types.TemplateChartTypeRequest{ChartTypeID: chartType.ID, Order: 1},
			&types.TemplateChartTypeRequest{ChartTypeID: chartType.ID, Order: 2},
		))
		assert.ErrorIs(t, err, dderr.ErrValidation)
	})

	t.Run("unknown chart type", func(t *testing.T) {
		missing := uuid.NewString()
		_, err := e.Templates.CreateTemplate(e.ctx, base(
			&types.TemplateChartTypeRequest{ChartTypeID: chartType.ID, Order: 1},
			&types.TemplateChartTypeRequest{ChartTypeID: missing, Order: 2},
		))
		require.ErrorIs(t, err, dderr.ErrInvalidReference)

		var de *dderr.Error
		require.ErrorAs(t, err, &de)
		assert.Equal(t, []string{missing}, (*de.Extras)["missing_chart_types"])
	})

	assert.Zero(t, e.count(t, (*model.Template)(nil)))
	assert.Zero(t, e.count(t, (*model.TemplateMeasurementValue)(nil)))
	assert.Zero(t, e.count(t, (*model.TemplateChartTypeMap)(nil)))
}

func TestUpdateTemplate(t *testing.T) {
	e := newEnv(t)
	rule := e.createRule(t, "pullover basic", "PULLOVER", "BODY_LENGTH")
	a := e.createChartType(t, "RAGLAN")
	b := e.createChartType(t, "SET_IN")
	template := e.createTemplate(t, rule.ID, &types.TemplateChartTypeRequest{ChartTypeID: a.ID, Order: 1})

	t.Run("replaces chart types", func(t *testing.T) {
		updated, err := e.Templates.UpdateTemplate(e.ctx, template.ID, &types.TemplateUpdateRequest{
			Name: "renamed", NeedleType: "CROCHET", PatternStyle: "CHART",
			ConstructionMethods: []string{"BOTTOM_UP", "SEAMLESS"},
			ChartTypes:          []*types.TemplateChartTypeRequest{{ChartTypeID: b.ID, Order: 1}},
		})
		require.NoError(t, err)
		assert.Equal(t, "renamed", updated.Name)
		assert.Equal(t, "CROCHET", updated.NeedleType)
		assert.Equal(t, []string{"BOTTOM_UP", "SEAMLESS"}, updated.ConstructionMethods)
		assert.Equal(t, []string{b.ID}, chartTypeIDs(updated.ChartTypes))
	})

	t.Run("unknown chart type keeps mappings", func(t *testing.T) {
		_, err := e.Templates.UpdateTemplate(e.ctx, template.ID, &types.TemplateUpdateRequest{
			Name: "renamed again", NeedleType: "CROCHET", PatternStyle: "CHART",
			ChartTypes: []*types.TemplateChartTypeRequest{{ChartTypeID: uuid.NewString(), Order: 1}},
		})
		require.ErrorIs(t, err, dderr.ErrInvalidReference)

		got, err := e.Templates.GetTemplateByID(e.ctx, template.ID)
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Name)
		assert.Equal(t, []string{b.ID}, chartTypeIDs(got.ChartTypes))
	})

	t.Run("absent chart types clear", func(t *testing.T) {
		updated, err := e.Templates.UpdateTemplate(e.ctx, template.ID, &types.TemplateUpdateRequest{
			Name: "renamed", NeedleType: "CROCHET", PatternStyle: "CHART",
		})
		require.NoError(t, err)
		assert.Empty(t, updated.ChartTypes)
		assert.Empty(t, updated.ConstructionMethods)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := e.Templates.UpdateTemplate(e.ctx, uuid.NewString(), &types.TemplateUpdateRequest{
			Name: "x", NeedleType: "CROCHET", PatternStyle: "CHART",
		})
		assert.ErrorIs(t, err, dderr.ErrNotFound)
	})
}

func TestUpdatePublishStatus(t *testing.T) {
	e := newEnv(t)
	rule := e.createRule(t, "pullover basic", "PULLOVER", "BODY_LENGTH")
	template := e.createTemplate(t, rule.ID)

	published, err := e.Templates.UpdatePublishStatus(e.ctx, template.ID, true)
	require.NoError(t, err)
	assert.True(t, published.IsPublished)

	unpublished, err := e.Templates.UpdatePublishStatus(e.ctx, template.ID, false)
	require.NoError(t, err)
	assert.False(t, unpublished.IsPublished)

	_, err = e.Templates.UpdatePublishStatus(e.ctx, uuid.NewString(), true)
	assert.ErrorIs(t, err, dderr.ErrNotFound)
}

func TestUpdateMeasurementValues(t *testing.T) {
	e := newEnv(t)
	rule := e.createRule(t, "pullover basic", "PULLOVER", "BODY_LENGTH", "CHEST_WIDTH")
	template := e.createTemplate(t, rule.ID)

	values, err := e.Templates.GetMeasurementValues(e.ctx, template.ID)
	require.NoError(t, err)
	require.Len(t, values, 2)

	t.Run("writes sizes and zeroes range when toggled off", func(t *testing.T) {
		got, err := e.Templates.UpdateMeasurementValues(e.ctx, template.ID, &types.MeasurementValuesRequest{
			Values: []*types.MeasurementValueRequest{
				{
					ID:           values[0].ID,
					Size50To53:   null.FloatFrom(40.5),
					Size121To129: null.FloatFrom(71),
					Min:          null.FloatFrom(3),
					Max:          null.FloatFrom(5),
					RangeToggle:  false,
				},
				{
					ID:          values[1].ID,
					Min:         null.FloatFrom(1.5),
					Max:         null.FloatFrom(2.5),
					RangeToggle: true,
				},
			},
		})
		require.NoError(t, err)
		require.Len(t, got, 2)

		assert.Equal(t, null.FloatFrom(40.5), got[0].Size50To53)
		assert.Equal(t, null.FloatFrom(71), got[0].Size121To129)
		assert.False(t, got[0].Size54To57.Valid)
		assert.Equal(t, null.FloatFrom(0), got[0].Min)
		assert.Equal(t, null.FloatFrom(0), got[0].Max)

		assert.True(t, got[1].RangeToggle)
		assert.Equal(t, null.FloatFrom(1.5), got[1].Min)
		assert.Equal(t, null.FloatFrom(2.5), got[1].Max)

		assert.Equal(t, "BODY_LENGTH", got[0].Code, "labels and codes are not writable")
	})

	t.Run("foreign row rolls back the batch", func(t *testing.T) {
		other := e.createTemplate(t, rule.ID)
		otherValues, err := e.Templates.GetMeasurementValues(e.ctx, other.ID)
		require.NoError(t, err)

		_, err = e.Templates.UpdateMeasurementValues(e.ctx, template.ID, &types.MeasurementValuesRequest{
			Values: []*types.MeasurementValueRequest{
				{ID: values[0].ID, Size50To53: null.FloatFrom(99)},
				{ID: otherValues[0].ID, Size50To53: null.FloatFrom(99)},
			},
		})
		require.ErrorIs(t, err, dderr.ErrNotFound)

		got, err := e.Templates.GetMeasurementValues(e.ctx, template.ID)
		require.NoError(t, err)
		assert.Equal(t, null.FloatFrom(40.5), got[0].Size50To53)
	})

	t.Run("unknown template", func(t *testing.T) {
		_, err := e.Templates.UpdateMeasurementValues(e.ctx, uuid.NewString(), &types.MeasurementValuesRequest{
			Values: []*types.MeasurementValueRequest{{ID: values[0].ID}},
		})
		assert.ErrorIs(t, err, dderr.ErrNotFound)
	})
}

func TestDeleteTemplate(t *testing.T) {
	e := newEnv(t)
	rule := e.createRule(t, "pullover basic", "PULLOVER", "BODY_LENGTH")
	chartType := e.createChartType(t, "RAGLAN")
	template := e.createTemplate(t, rule.ID, &types.TemplateChartTypeRequest{ChartTypeID: chartType.ID, Order: 1})

	require.NoError(t, e.Templates.DeleteTemplate(e.ctx, template.ID))
	assert.ErrorIs(t, e.Templates.DeleteTemplate(e.ctx, template.ID), dderr.ErrNotFound)

	assert.Zero(t, e.count(t, (*model.Template)(nil)))
	assert.Zero(t, e.count(t, (*model.TemplateMeasurementValue)(nil)))
	assert.Zero(t, e.count(t, (*model.TemplateChartTypeMap)(nil)))

	// both sides of the released links become deletable
	assert.NoError(t, e.ChartTypes.DeleteChartType(e.ctx, chartType.ID))
	assert.NoError(t, e.Rules.DeleteRule(e.ctx, rule.ID))
}

func TestGetTemplatesByRuleID(t *testing.T) {
	e := newEnv(t)
	a := e.createRule(t, "pullover basic", "PULLOVER", "BODY_LENGTH")
	b := e.createRule(t, "cardigan basic", "CARDIGAN", "BODY_LENGTH")
	e.createTemplate(t, a.ID)
	e.createTemplate(t, a.ID)
	e.createTemplate(t, b.ID)

	all, err := e.Templates.GetTemplates(e.ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byRule, err := e.Templates.GetTemplatesByRuleID(e.ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, byRule, 2)
	for _, tpl := range byRule {
		assert.Equal(t, a.ID, tpl.MeasurementRuleID)
		assert.NotNil(t, tpl.ChartTypes)
	}

	_, err = e.Templates.GetTemplatesByRuleID(e.ctx, uuid.NewString())
	assert.ErrorIs(t, err, dderr.ErrNotFound)
}

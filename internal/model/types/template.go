package types

import (
	"gopkg.in/guregu/null.v3"

	"github.com/highgarden7/dddorok-admin-backend/internal/model"
)

type TemplateChartTypeRequest struct {
	ChartTypeID string `json:"id" validate:"required,uuid"`
	Order       int    `json:"order"`
}

type TemplateRequest struct {
	Name                string                      `json:"name" validate:"required,max=128"`
	NeedleType          string                      `json:"needle_type" validate:"required,max=64"`
	PatternStyle        string                      `json:"pattern_style" validate:"required,max=64"`
	MeasurementRuleID   string                      `json:"measurement_rule_id" validate:"required,uuid"`
	ConstructionMethods []string                    `json:"construction_methods" validate:"dive,required,max=64"`
	ChartTypes          []*TemplateChartTypeRequest `json:"chart_types" validate:"dive"`
}

type TemplateUpdateRequest struct {
	Name                string                      `json:"name" validate:"required,max=128"`
	NeedleType          string                      `json:"needle_type" validate:"required,max=64"`
	PatternStyle        string                      `json:"pattern_style" validate:"required,max=64"`
	ConstructionMethods []string                    `json:"construction_methods" validate:"dive,required,max=64"`
	ChartTypes          []*TemplateChartTypeRequest `json:"chart_types" validate:"dive"`
}

type TemplatePublishRequest struct {
	IsPublished *bool `json:"is_published" validate:"required"`
}

type MeasurementValueRequest struct {
	ID string `json:"id" validate:"required,uuid"`

	Size50To53   null.Float `json:"size_50_53"`
	Size54To57   null.Float `json:"size_54_57"`
	Size58To61   null.Float `json:"size_58_61"`
	Size62To65   null.Float `json:"size_62_65"`
	Size66To69   null.Float `json:"size_66_69"`
	Size70To73   null.Float `json:"size_70_73"`
	Size74To79   null.Float `json:"size_74_79"`
	Size80To84   null.Float `json:"size_80_84"`
	Size85To89   null.Float `json:"size_85_89"`
	Size90To94   null.Float `json:"size_90_94"`
	Size95To99   null.Float `json:"size_95_99"`
	Size100To104 null.Float `json:"size_100_104"`
	Size105To109 null.Float `json:"size_105_109"`
	Size110To114 null.Float `json:"size_110_114"`
	Size115To120 null.Float `json:"size_115_120"`
	Size121To129 null.Float `json:"size_121_129"`

	Min         null.Float `json:"min"`
	Max         null.Float `json:"max"`
	RangeToggle bool       `json:"range_toggle"`
}

type MeasurementValuesRequest struct {
	Values []*MeasurementValueRequest `json:"values" validate:"required,min=1,dive"`
}

type TemplateChartTypeRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

type TemplateSummary struct {
	*model.Template

	ChartTypes []*TemplateChartTypeRef `json:"chart_types"`
}

type TemplateDetail struct {
	*model.Template

	MeasurementRule *model.MeasurementRule  `json:"measurement_rule"`
	ChartTypes      []*TemplateChartTypeRef `json:"chart_types"`
}

// NewTemplateChartTypeRefs expects maps already ordered and with ChartType loaded.
func NewTemplateChartTypeRefs(maps []*model.TemplateChartTypeMap) []*TemplateChartTypeRef {
	refs := make([]*TemplateChartTypeRef, 0, len(maps))
	for _, m := range maps {
		ref := &TemplateChartTypeRef{ID: m.ChartTypeID, Order: m.Order}
		if m.ChartType != nil {
			ref.Name = m.ChartType.Name
		}
		refs = append(refs, ref)
	}
	return refs
}

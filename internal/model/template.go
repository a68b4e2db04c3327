package model

import (
	"time"

	"github.com/uptrace/bun"
)

type Template struct {
	bun.BaseModel `bun:"templates,alias:t"`

	ID                  string    `bun:"id,pk,type:uuid" json:"id"`
	Name                string    `bun:"name,notnull" json:"name"`
	NeedleType          string    `bun:"needle_type,notnull" json:"needle_type"`
	PatternStyle        string    `bun:"pattern_style,notnull" json:"pattern_style"`
	IsPublished         bool      `bun:"is_published,notnull" json:"is_published"`
	MeasurementRuleID   string    `bun:"measurement_rule_id,notnull,type:uuid" json:"measurement_rule_id"`
	ConstructionMethods []string  `bun:"construction_methods" json:"construction_methods"`
	CreatedAt           time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt           time.Time `bun:"updated_at,notnull" json:"updated_at"`

	MeasurementRule *MeasurementRule        `bun:"rel:belongs-to,join:measurement_rule_id=id" json:"-"`
	ChartTypeMaps   []*TemplateChartTypeMap `bun:"rel:has-many,join:id=template_id" json:"-"`
}

// TemplateChartTypeMap orders chart types within a template. It is not owned by
// either side and has to be removed explicitly before its template goes away.
type TemplateChartTypeMap struct {
	bun.BaseModel `bun:"template_chart_type_maps,alias:tctm"`

	ID          string `bun:"id,pk,type:uuid" json:"id"`
	TemplateID  string `bun:"template_id,notnull,type:uuid,unique:template_chart_type_maps_pair_key" json:"template_id"`
	ChartTypeID string `bun:"chart_type_id,notnull,type:uuid,unique:template_chart_type_maps_pair_key" json:"chart_type_id"`
	Order       int    `bun:"order,notnull" json:"order"`

	ChartType *ChartType `bun:"rel:belongs-to,join:chart_type_id=id" json:"-"`
	Template  *Template  `bun:"rel:belongs-to,join:template_id=id" json:"-"`
}

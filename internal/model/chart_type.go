package model

import (
	"time"

	"github.com/uptrace/bun"
	"gopkg.in/guregu/null.v3"
)

const ConstraintChartTypeCategory = "chart_type_category"

type ChartType struct {
	bun.BaseModel `bun:"chart_types,alias:ct"`

	ID             string `bun:"id,pk,type:uuid" json:"id"`
	Name           string `bun:"name,notnull" json:"name"`
	CategoryLarge  string `bun:"category_large,notnull,unique:chart_types_category_key" json:"category_large"`
	CategoryMedium string `bun:"category_medium,notnull,unique:chart_types_category_key" json:"category_medium"`
	Section        string `bun:"section,notnull,unique:chart_types_category_key" json:"section"`
	DetailType     string `bun:"detail_type,notnull,unique:chart_types_category_key" json:"detail_type"`
	// MeasurementRuleID is an optional, unenforced hint of the rule the diagram was drawn for.
	MeasurementRuleID null.String `bun:"measurement_rule_id,type:uuid" json:"measurement_rule_id"`
	SvgFileID         string      `bun:"svg_file_id,notnull,type:uuid" json:"svg_file_id"`
	CreatedAt         time.Time   `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt         time.Time   `bun:"updated_at,notnull" json:"updated_at"`

	SvgFile  *Resource           `bun:"rel:belongs-to,join:svg_file_id=id" json:"-"`
	CodeMaps []*ChartTypeCodeMap `bun:"rel:has-many,join:id=chart_type_id" json:"measurement_code_maps,omitempty"`

	TemplateCount int `bun:"template_count,scanonly" json:"-"`
}

type ChartTypeCodeMap struct {
	bun.BaseModel `bun:"chart_type_code_maps,alias:ctcm"`

	ID              string `bun:"id,pk,type:uuid" json:"id"`
	ChartTypeID     string `bun:"chart_type_id,notnull,type:uuid" json:"chart_type_id"`
	MeasurementCode string `bun:"measurement_code,notnull" json:"measurement_code"`
	PathID          string `bun:"path_id,notnull" json:"path_id"`
}

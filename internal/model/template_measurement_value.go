package model

import (
	"github.com/uptrace/bun"
	"gopkg.in/guregu/null.v3"
)

// TemplateMeasurementValue is the frozen working copy of a rule item inside a
// template. Later edits to the rule never reach it.
type TemplateMeasurementValue struct {
	bun.BaseModel `bun:"template_measurement_values,alias:tmv"`

	ID         string `bun:"id,pk,type:uuid" json:"id"`
	TemplateID string `bun:"template_id,notnull,type:uuid" json:"template_id"`
	Position   int    `bun:"position,notnull" json:"position"`
	Label      string `bun:"label,notnull" json:"label"`
	Code       string `bun:"code,notnull" json:"code"`

	Size50To53   null.Float `bun:"size_50_53" json:"size_50_53"`
	Size54To57   null.Float `bun:"size_54_57" json:"size_54_57"`
	Size58To61   null.Float `bun:"size_58_61" json:"size_58_61"`
	Size62To65   null.Float `bun:"size_62_65" json:"size_62_65"`
	Size66To69   null.Float `bun:"size_66_69" json:"size_66_69"`
	Size70To73   null.Float `bun:"size_70_73" json:"size_70_73"`
	Size74To79   null.Float `bun:"size_74_79" json:"size_74_79"`
	Size80To84   null.Float `bun:"size_80_84" json:"size_80_84"`
	Size85To89   null.Float `bun:"size_85_89" json:"size_85_89"`
	Size90To94   null.Float `bun:"size_90_94" json:"size_90_94"`
	Size95To99   null.Float `bun:"size_95_99" json:"size_95_99"`
	Size100To104 null.Float `bun:"size_100_104" json:"size_100_104"`
	Size105To109 null.Float `bun:"size_105_109" json:"size_105_109"`
	Size110To114 null.Float `bun:"size_110_114" json:"size_110_114"`
	Size115To120 null.Float `bun:"size_115_120" json:"size_115_120"`
	Size121To129 null.Float `bun:"size_121_129" json:"size_121_129"`

	Min         null.Float `bun:"min" json:"min"`
	Max         null.Float `bun:"max" json:"max"`
	RangeToggle bool       `bun:"range_toggle,notnull" json:"range_toggle"`
}

// MeasurementValueColumns are the columns a value update is allowed to write.
var MeasurementValueColumns = []string{
	"size_50_53", "size_54_57", "size_58_61", "size_62_65", "size_66_69", "size_70_73",
	"size_74_79", "size_80_84", "size_85_89", "size_90_94", "size_95_99", "size_100_104",
	"size_105_109", "size_110_114", "size_115_120", "size_121_129",
	"min", "max", "range_toggle",
}

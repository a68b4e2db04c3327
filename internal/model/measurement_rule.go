package model

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	SleeveTypeNone   = "NONE"
	NeckLineTypeNone = "NONE"

	ConstraintRuleName        = "rule_name"
	ConstraintRuleCombination = "rule_combination"
)

type MeasurementRule struct {
	bun.BaseModel `bun:"measurement_rules,alias:mr"`

	ID             string    `bun:"id,pk,type:uuid" json:"id"`
	CategoryLarge  string    `bun:"category_large,notnull" json:"category_large"`
	CategoryMedium string    `bun:"category_medium,notnull" json:"category_medium"`
	CategorySmall  string    `bun:"category_small,notnull,unique:measurement_rules_combination_key" json:"category_small"`
	SleeveType     string    `bun:"sleeve_type,notnull,unique:measurement_rules_combination_key" json:"sleeve_type"`
	NeckLineType   string    `bun:"neck_line_type,notnull,unique:measurement_rules_combination_key" json:"neck_line_type"`
	RuleName       string    `bun:"rule_name,notnull,unique" json:"rule_name"`
	CreatedAt      time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt      time.Time `bun:"updated_at,notnull" json:"updated_at"`

	Items []*MeasurementRuleItem `bun:"rel:has-many,join:id=rule_id" json:"items,omitempty"`

	ItemCount     int `bun:"item_count,scanonly" json:"-"`
	TemplateCount int `bun:"template_count,scanonly" json:"-"`
}

// MeasurementRuleItem is a snapshot of a catalog row taken when the code was assigned to the rule.
type MeasurementRuleItem struct {
	bun.BaseModel `bun:"measurement_rule_items,alias:mri"`

	ID       string `bun:"id,pk,type:uuid" json:"id"`
	RuleID   string `bun:"rule_id,notnull,type:uuid" json:"rule_id"`
	Position int    `bun:"position,notnull" json:"position"`
	Category string `bun:"category,notnull" json:"category"`
	Section  string `bun:"section,notnull" json:"section"`
	Label    string `bun:"label,notnull" json:"label"`
	Code     string `bun:"code,notnull" json:"code"`
}

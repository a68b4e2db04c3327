package types

import (
	"time"

	"github.com/highgarden7/dddorok-admin-backend/internal/model"
)

type MeasurementRuleRequest struct {
	CategoryLarge  string `json:"category_large" validate:"required,max=64"`
	CategoryMedium string `json:"category_medium" validate:"required,max=64"`
	CategorySmall  string `json:"category_small" validate:"required,max=64"`
	SleeveType     string `json:"sleeve_type" validate:"max=64"`
	NeckLineType   string `json:"neck_line_type" validate:"max=64"`
	RuleName       string `json:"rule_name" validate:"required,max=128"`
	// ItemCodes are master catalog codes, in display order.
	ItemCodes []string `json:"items" validate:"required,min=1,dive,required,max=64"`
}

type MeasurementRuleSummary struct {
	ID             string    `json:"id"`
	CategoryLarge  string    `json:"category_large"`
	CategoryMedium string    `json:"category_medium"`
	CategorySmall  string    `json:"category_small"`
	SleeveType     string    `json:"sleeve_type"`
	NeckLineType   string    `json:"neck_line_type"`
	RuleName       string    `json:"rule_name"`
	ItemCount      int       `json:"measurement_item_count"`
	TemplateCount  int       `json:"template_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewMeasurementRuleSummary(r *model.MeasurementRule) *MeasurementRuleSummary {
	return &MeasurementRuleSummary{
		ID:             r.ID,
		CategoryLarge:  r.CategoryLarge,
		CategoryMedium: r.CategoryMedium,
		CategorySmall:  r.CategorySmall,
		SleeveType:     r.SleeveType,
		NeckLineType:   r.NeckLineType,
		RuleName:       r.RuleName,
		ItemCount:      r.ItemCount,
		TemplateCount:  r.TemplateCount,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

package types

import (
	"time"

	"gopkg.in/guregu/null.v3"

	"github.com/highgarden7/dddorok-admin-backend/internal/model"
)

type MeasurementCodeMapRequest struct {
	MeasurementCode string   `json:"measurement_code" validate:"required,max=64"`
	SvgPathIDs      []string `json:"svg_path_ids" validate:"required,min=1,dive,required,max=128"`
}

type ChartTypeRequest struct {
	Name                string                       `json:"name" validate:"required,max=128"`
	CategoryLarge       string                       `json:"category_large" validate:"required,max=64"`
	CategoryMedium      string                       `json:"category_medium" validate:"required,max=64"`
	Section             string                       `json:"section" validate:"required,max=64"`
	DetailType          string                       `json:"detail_type" validate:"required,max=64"`
	MeasurementRuleID   null.String                  `json:"measurement_rule_id"`
	SvgFileID           string                       `json:"svg_file_id" validate:"required,uuid"`
	MeasurementCodeMaps []*MeasurementCodeMapRequest `json:"measurement_code_maps" validate:"dive"`
}

type MeasurementCodeMapsRequest struct {
	MeasurementCodeMaps []*MeasurementCodeMapRequest `json:"measurement_code_maps" validate:"dive"`
}

// SvgUpload is an already-read multipart file.
type SvgUpload struct {
	Filename    string
	ContentType string
	Body        []byte
}

type SvgUploadResponse struct {
	ResourceID string `json:"resource_id"`
	URL        string `json:"url"`
}

type TemplateRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ChartTypeSummary struct {
	ID                  string                    `json:"id"`
	Name                string                    `json:"name"`
	CategoryLarge       string                    `json:"category_large"`
	CategoryMedium      string                    `json:"category_medium"`
	Section             string                    `json:"section"`
	DetailType          string                    `json:"detail_type"`
	TemplateCount       int                       `json:"template_count"`
	MeasurementCodeMaps []*model.ChartTypeCodeMap `json:"measurement_code_maps"`
	CreatedAt           time.Time                 `json:"created_at"`
	UpdatedAt           time.Time                 `json:"updated_at"`
}

func NewChartTypeSummary(c *model.ChartType) *ChartTypeSummary {
	maps := c.CodeMaps
	if maps == nil {
		maps = []*model.ChartTypeCodeMap{}
	}
	return &ChartTypeSummary{
		ID:                  c.ID,
		Name:                c.Name,
		CategoryLarge:       c.CategoryLarge,
		CategoryMedium:      c.CategoryMedium,
		Section:             c.Section,
		DetailType:          c.DetailType,
		TemplateCount:       c.TemplateCount,
		MeasurementCodeMaps: maps,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

type ChartTypeDetail struct {
	*model.ChartType

	SvgFileURL string         `json:"svg_file_url"`
	Templates  []*TemplateRef `json:"templates"`
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/uptrace/bun"
	"gopkg.in/guregu/null.v3"

	"github.com/highgarden7/dddorok-admin-backend/internal/model"
	"github.com/highgarden7/dddorok-admin-backend/internal/model/types"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/dderr"
	"github.com/highgarden7/dddorok-admin-backend/internal/repo"
)

type Template struct {
	DB                           *bun.DB
	TemplateRepo                 *repo.Template
	TemplateChartTypeMapRepo     *repo.TemplateChartTypeMap
	TemplateMeasurementValueRepo *repo.TemplateMeasurementValue
	MeasurementRuleRepo          *repo.MeasurementRule
	ChartTypeRepo                *repo.ChartType
}

func NewTemplate(
	db *bun.DB,
	templateRepo *repo.Template,
	templateChartTypeMapRepo *repo.TemplateChartTypeMap,
	templateMeasurementValueRepo *repo.TemplateMeasurementValue,
	measurementRuleRepo *repo.MeasurementRule,
	chartTypeRepo *repo.ChartType,
) *Template {
	return &Template{
		DB:                           db,
		TemplateRepo:                 templateRepo,
		TemplateChartTypeMapRepo:     templateChartTypeMapRepo,
		TemplateMeasurementValueRepo: templateMeasurementValueRepo,
		MeasurementRuleRepo:          measurementRuleRepo,
		ChartTypeRepo:                chartTypeRepo,
	}
}

// chartTypeMaps validates the requested chart types and builds the mapping rows.
func (s *Template) chartTypeMaps(ctx context.Context, tx bun.IDB, templateID string, reqs []*types.TemplateChartTypeRequest) ([]*model.TemplateChartTypeMap, error) {
	ids := lo.Map(reqs, func(r *types.TemplateChartTypeRequest, _ int) string { return r.ChartTypeID })
	if dup := lo.FindDuplicates(ids); len(dup) > 0 {
		return nil, dderr.ErrValidation.Msg("chart types listed more than once: %v", dup)
	}

	found, err := s.ChartTypeRepo.WithTx(tx).GetChartTypesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		known := lo.Map(found, func(c *model.ChartType, _ int) string { return c.ID })
		missing, _ := lo.Difference(ids, known)
		return nil, dderr.ErrInvalidReference.Msg("unknown chart types: %v", missing).WithExtras(dderr.Extras{
			"missing_chart_types": missing,
		})
	}

	return lo.Map(reqs, func(r *types.TemplateChartTypeRequest, _ int) *model.TemplateChartTypeMap {
		return &model.TemplateChartTypeMap{
			ID:          uuid.NewString(),
			TemplateID:  templateID,
			ChartTypeID: r.ChartTypeID,
			Order:       r.Order,
		}
	}), nil
}

// CreateTemplate creates a template bound to a rule and freezes a value row for
// every item the rule has right now.
func (s *Template) CreateTemplate(ctx context.Context, req *types.TemplateRequest) (*types.TemplateDetail, error) {
	var templateID string
	err := s.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		rules := s.MeasurementRuleRepo.WithTx(tx)
		err := rules.LockRule(ctx, req.MeasurementRuleID, repo.LockForShare)
		if errors.Is(err, dderr.ErrNotFound) {
			return dderr.ErrNotFound.Msg("measurement rule %s not found", req.MeasurementRuleID)
		} else if err != nil {
			return err
		}

		rule, err := rules.GetRuleByID(ctx, req.MeasurementRuleID)
		if err != nil {
			return err
		}

		template := &model.Template{}
		if err := copier.Copy(template, req); err != nil {
			return errors.Wrap(err, "failed to map template request")
		}
		now := time.Now().UTC()
		template.ID = uuid.NewString()
		template.IsPublished = false
		template.CreatedAt = now
		template.UpdatedAt = now
		if template.ConstructionMethods == nil {
			template.ConstructionMethods = []string{}
		}

		maps, err := s.chartTypeMaps(ctx, tx, template.ID, req.ChartTypes)
		if err != nil {
			return err
		}

		if err := s.TemplateRepo.WithTx(tx).CreateTemplate(ctx, template); err != nil {
			return err
		}
		if err := s.TemplateChartTypeMapRepo.WithTx(tx).ReplaceAllForTemplate(ctx, template.ID, maps); err != nil {
			return err
		}

		values := lo.Map(rule.Items, func(item *model.MeasurementRuleItem, _ int) *model.TemplateMeasurementValue {
			return &model.TemplateMeasurementValue{
				ID:          uuid.NewString(),
				TemplateID:  template.ID,
				Position:    item.Position,
				Label:       item.Label,
				Code:        item.Code,
				RangeToggle: false,
			}
		})
		if err := s.TemplateMeasurementValueRepo.WithTx(tx).InsertValues(ctx, values); err != nil {
			return err
		}

		templateID = template.ID
		log.Info().
			Str("evt.name", "template.created").
			Str("template_id", template.ID).
			Str("rule_id", rule.ID).
			Int("values", len(values)).
			Int("chart_types", len(maps)).
			Msg("template created")
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetTemplateByID(ctx, templateID)
}

// UpdateTemplate updates the scalars and replaces the chart type set; an
// absent chart type list clears it.
func (s *Template) UpdateTemplate(ctx context.Context, id string, req *types.TemplateUpdateRequest) (*types.TemplateDetail, error) {
	err := s.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		templates := s.TemplateRepo.WithTx(tx)

		template, err := templates.GetTemplateByID(ctx, id)
		if err != nil {
			return err
		}

		maps, err := s.chartTypeMaps(ctx, tx, id, req.ChartTypes)
		if err != nil {
			return err
		}

		if err := copier.Copy(template, req); err != nil {
			return errors.Wrap(err, "failed to map template request")
		}
		template.UpdatedAt = time.Now().UTC()
		if template.ConstructionMethods == nil {
			template.ConstructionMethods = []string{}
		}

		if err := templates.UpdateTemplate(ctx, template); err != nil {
			return err
		}
		return s.TemplateChartTypeMapRepo.WithTx(tx).ReplaceAllForTemplate(ctx, id, maps)
	})
	if err != nil {
		return nil, err
	}

	return s.GetTemplateByID(ctx, id)
}

func (s *Template) UpdatePublishStatus(ctx context.Context, id string, isPublished bool) (*types.TemplateDetail, error) {
	err := s.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		templates := s.TemplateRepo.WithTx(tx)

		exists, err := templates.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return dderr.ErrNotFound.Msg("template %s not found", id)
		}

		return templates.UpdatePublishStatus(ctx, &model.Template{
			ID:          id,
			IsPublished: isPublished,
			UpdatedAt:   time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("evt.name", "template.publish").
		Str("template_id", id).
		Bool("is_published", isPublished).
		Msg("template publish status changed")

	return s.GetTemplateByID(ctx, id)
}

func (s *Template) GetMeasurementValues(ctx context.Context, templateID string) ([]*model.TemplateMeasurementValue, error) {
	exists, err := s.TemplateRepo.ExistsByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, dderr.ErrNotFound.Msg("template %s not found", templateID)
	}
	return s.TemplateMeasurementValueRepo.GetValuesByTemplateID(ctx, templateID)
}

// UpdateMeasurementValues writes a batch of value rows of one template. Every
// row has to belong to the template or nothing is written.
func (s *Template) UpdateMeasurementValues(ctx context.Context, templateID string, req *types.MeasurementValuesRequest) ([]*model.TemplateMeasurementValue, error) {
	err := s.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := s.TemplateRepo.WithTx(tx).ExistsByID(ctx, templateID)
		if err != nil {
			return err
		}
		if !exists {
			return dderr.ErrNotFound.Msg("template %s not found", templateID)
		}

		values := s.TemplateMeasurementValueRepo.WithTx(tx)
		for _, row := range req.Values {
			value := &model.TemplateMeasurementValue{}
			if err := copier.Copy(value, row); err != nil {
				return errors.Wrap(err, "failed to map measurement value request")
			}
			value.TemplateID = templateID
			if !value.RangeToggle {
				value.Min = null.FloatFrom(0)
				value.Max = null.FloatFrom(0)
			}

			ok, err := values.UpdateValue(ctx, value)
			if err != nil {
				return err
			}
			if !ok {
				return dderr.ErrNotFound.Msg("measurement value %s not found in template %s", row.ID, templateID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.TemplateMeasurementValueRepo.GetValuesByTemplateID(ctx, templateID)
}

// DeleteTemplate removes the chart type mappings explicitly, then the template.
func (s *Template) DeleteTemplate(ctx context.Context, id string) error {
	return s.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		templates := s.TemplateRepo.WithTx(tx)

		exists, err := templates.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return dderr.ErrNotFound.Msg("template %s not found", id)
		}

		if err := s.TemplateChartTypeMapRepo.WithTx(tx).DeleteAllForTemplate(ctx, id); err != nil {
			return err
		}
		if _, err := templates.DeleteTemplate(ctx, id); err != nil {
			return err
		}

		log.Info().
			Str("evt.name", "template.deleted").
			Str("template_id", id).
			Msg("template deleted")
		return nil
	})
}

func newTemplateSummary(t *model.Template) *types.TemplateSummary {
	return &types.TemplateSummary{
		Template:   t,
		ChartTypes: types.NewTemplateChartTypeRefs(t.ChartTypeMaps),
	}
}

func (s *Template) GetTemplates(ctx context.Context) ([]*types.TemplateSummary, error) {
	templates, err := s.TemplateRepo.GetTemplates(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(templates, func(t *model.Template, _ int) *types.TemplateSummary {
		return newTemplateSummary(t)
	}), nil
}

func (s *Template) GetTemplatesByRuleID(ctx context.Context, ruleID string) ([]*types.TemplateSummary, error) {
	exists, err := s.MeasurementRuleRepo.ExistsByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, dderr.ErrNotFound.Msg("measurement rule %s not found", ruleID)
	}

	templates, err := s.TemplateRepo.GetTemplatesByRuleID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	return lo.Map(templates, func(t *model.Template, _ int) *types.TemplateSummary {
		return newTemplateSummary(t)
	}), nil
}

func (s *Template) GetTemplateByID(ctx context.Context, id string) (*types.TemplateDetail, error) {
	template, err := s.TemplateRepo.GetTemplateByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rule, err := s.MeasurementRuleRepo.GetRuleByID(ctx, template.MeasurementRuleID)
	if err != nil {
		return nil, err
	}
	if rule.Items == nil {
		rule.Items = []*model.MeasurementRuleItem{}
	}

	return &types.TemplateDetail{
		Template:        template,
		MeasurementRule: rule,
		ChartTypes:      types.NewTemplateChartTypeRefs(template.ChartTypeMaps),
	}, nil
}

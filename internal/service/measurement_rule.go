package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/uptrace/bun"

	"github.com/highgarden7/dddorok-admin-backend/internal/model"
	"github.com/highgarden7/dddorok-admin-backend/internal/model/types"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/dderr"
	"github.com/highgarden7/dddorok-admin-backend/internal/repo"
	"github.com/highgarden7/dddorok-admin-backend/internal/util"
)

type MeasurementRule struct {
	DB                  *bun.DB
	MeasurementRuleRepo *repo.MeasurementRule
	TemplateRepo        *repo.Template
	CatalogService      *Catalog
}

func NewMeasurementRule(db *bun.DB, measurementRuleRepo *repo.MeasurementRule, templateRepo *repo.Template, catalogService *Catalog) *MeasurementRule {
	return &MeasurementRule{
		DB:                  db,
		MeasurementRuleRepo: measurementRuleRepo,
		TemplateRepo:        templateRepo,
		CatalogService:      catalogService,
	}
}

func normalizeRuleRequest(req *types.MeasurementRuleRequest) {
	req.CategoryLarge = strings.TrimSpace(req.CategoryLarge)
	req.CategoryMedium = strings.TrimSpace(req.CategoryMedium)
	req.CategorySmall = strings.TrimSpace(req.CategorySmall)
	req.RuleName = strings.TrimSpace(req.RuleName)
	req.SleeveType = util.NormalizeOptional(req.SleeveType, model.SleeveTypeNone)
	req.NeckLineType = util.NormalizeOptional(req.NeckLineType, model.NeckLineTypeNone)
}

// checkUniqueness runs both rule uniqueness checks against rules other than excludeID.
func checkUniqueness(ctx context.Context, rules *repo.MeasurementRule, req *types.MeasurementRuleRequest, excludeID string) error {
	exists, err := rules.ExistsByName(ctx, req.RuleName, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return dderr.NewDuplicate(model.ConstraintRuleName, "measurement rule name %q already exists", req.RuleName)
	}

	exists, err = rules.ExistsByCombination(ctx, req.CategorySmall, req.SleeveType, req.NeckLineType, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return dderr.NewDuplicate(model.ConstraintRuleCombination,
			"a measurement rule for %s / %s / %s already exists", req.CategorySmall, req.SleeveType, req.NeckLineType)
	}

	return nil
}

// snapshotItems resolves codes strictly and copies the catalog rows into rule items.
func (s *MeasurementRule) snapshotItems(ctx context.Context, tx bun.IDB, ruleID string, codes []string) ([]*model.MeasurementRuleItem, error) {
	resolved, missing, err := s.CatalogService.Resolve(ctx, tx, codes)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, dderr.NewMissingCodes(missing)
	}

	codes = util.DedupeStable(codes)
	return lo.Map(codes, func(code string, i int) *model.MeasurementRuleItem {
		c := resolved[code]
		return &model.MeasurementRuleItem{
			ID:       uuid.NewString(),
			RuleID:   ruleID,
			Position: i,
			Category: c.Category,
			Section:  c.Section,
			Label:    c.Label,
			Code:     c.Code,
		}
	}), nil
}

func (s *MeasurementRule) CreateRule(ctx context.Context, req *types.MeasurementRuleRequest) (*model.MeasurementRule, error) {
	normalizeRuleRequest(req)

	var created *model.MeasurementRule
	err := s.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		rules := s.MeasurementRuleRepo.WithTx(tx)

		if err := checkUniqueness(ctx, rules, req, ""); err != nil {
			return err
		}

		rule := &model.MeasurementRule{}
		if err := copier.Copy(rule, req); err != nil {
			return errors.Wrap(err, "failed to map measurement rule request")
		}
		now := time.Now().UTC()
		rule.ID = uuid.NewString()
		rule.CreatedAt = now
		rule.UpdatedAt = now

		items, err := s.snapshotItems(ctx, tx, rule.ID, req.ItemCodes)
		if err != nil {
			return err
		}

		if err := rules.CreateRule(ctx, rule); err != nil {
			return err
		}
		if err := rules.InsertItems(ctx, items); err != nil {
			return err
		}

		created, err = rules.GetRuleByID(ctx, rule.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("evt.name", "rule.created").
		Str("rule_id", created.ID).
		Int("items", len(created.Items)).
		Msg("measurement rule created")

	return created, nil
}

// UpdateRule replaces the scalars and the whole item set of a rule no template uses yet.
func (s *MeasurementRule) UpdateRule(ctx context.Context, id string, req *types.MeasurementRuleRequest) (*model.MeasurementRule, error) {
	normalizeRuleRequest(req)

	var updated *model.MeasurementRule
	err := s.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		rules := s.MeasurementRuleRepo.WithTx(tx)

		if err := rules.LockRule(ctx, id, repo.LockForUpdate); err != nil {
			return err
		}
		rule, err := rules.GetRuleByID(ctx, id)
		if err != nil {
			return err
		}

		if err := checkUniqueness(ctx, rules, req, id); err != nil {
			return err
		}

		templates, err := s.TemplateRepo.WithTx(tx).CountByRuleID(ctx, id)
		if err != nil {
			return err
		}
		if templates > 0 {
			return dderr.ErrReferentialConflict.Msg("measurement rule is used by %d template(s) and cannot be modified", templates)
		}

		items, err := s.snapshotItems(ctx, tx, id, req.ItemCodes)
		if err != nil {
			return err
		}

		if err := copier.Copy(rule, req); err != nil {
			return errors.Wrap(err, "failed to map measurement rule request")
		}
		rule.UpdatedAt = time.Now().UTC()

		if err := rules.UpdateRule(ctx, rule); err != nil {
			return err
		}
		if err := rules.DeleteItemsByRuleID(ctx, id); err != nil {
			return err
		}
		if err := rules.InsertItems(ctx, items); err != nil {
			return err
		}

		updated, err = rules.GetRuleByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("evt.name", "rule.updated").
		Str("rule_id", id).
		Int("items", len(updated.Items)).
		Msg("measurement rule updated")

	return updated, nil
}

func (s *MeasurementRule) DeleteRule(ctx context.Context, id string) error {
	return s.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		rules := s.MeasurementRuleRepo.WithTx(tx)

		err := rules.LockRule(ctx, id, repo.LockForUpdate)
		if errors.Is(err, dderr.ErrNotFound) {
			return dderr.ErrNotFound.Msg("measurement rule %s not found", id)
		} else if err != nil {
			return err
		}

		templates, err := s.TemplateRepo.WithTx(tx).CountByRuleID(ctx, id)
		if err != nil {
			return err
		}
		if templates > 0 {
			return dderr.ErrReferentialConflict.Msg("measurement rule is used by %d template(s) and cannot be deleted", templates)
		}

		if _, err := rules.DeleteRule(ctx, id); err != nil {
			return err
		}

		log.Info().
			Str("evt.name", "rule.deleted").
			Str("rule_id", id).
			Msg("measurement rule deleted")
		return nil
	})
}

func (s *MeasurementRule) GetRules(ctx context.Context) ([]*types.MeasurementRuleSummary, error) {
	rules, err := s.MeasurementRuleRepo.GetRules(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(rules, func(r *model.MeasurementRule, _ int) *types.MeasurementRuleSummary {
		return types.NewMeasurementRuleSummary(r)
	}), nil
}

func (s *MeasurementRule) GetRuleByID(ctx context.Context, id string) (*model.MeasurementRule, error) {
	rule, err := s.MeasurementRuleRepo.GetRuleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rule.Items == nil {
		rule.Items = []*model.MeasurementRuleItem{}
	}
	return rule, nil
}

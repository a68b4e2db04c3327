package repo

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"github.com/highgarden7/dddorok-admin-backend/internal/model"
	"github.com/highgarden7/dddorok-admin-backend/internal/repo/selector"
)

var ruleConstraintAliases = map[string]string{
	"measurement_rules_rule_name_key":   model.ConstraintRuleName,
	"measurement_rules_combination_key": model.ConstraintRuleCombination,
	"measurement_rules.rule_name":       model.ConstraintRuleName,
	"measurement_rules.category_small, measurement_rules.sleeve_type, measurement_rules.neck_line_type": model.ConstraintRuleCombination,
}

type MeasurementRule struct {
	db  bun.IDB
	sel selector.S[model.MeasurementRule]
}

func NewMeasurementRule(db *bun.DB) *MeasurementRule {
	return newMeasurementRule(db)
}

func newMeasurementRule(db bun.IDB) *MeasurementRule {
	return &MeasurementRule{db: db, sel: selector.New[model.MeasurementRule](db)}
}

func (r *MeasurementRule) WithTx(tx bun.IDB) *MeasurementRule {
	return newMeasurementRule(tx)
}

// GetRules lists rules newest first, with item and template counts computed at query time.
func (r *MeasurementRule) GetRules(ctx context.Context) ([]*model.MeasurementRule, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			ColumnExpr("mr.*").
			ColumnExpr("(SELECT COUNT(*) FROM measurement_rule_items AS mri WHERE mri.rule_id = mr.id) AS item_count").
			ColumnExpr("(SELECT COUNT(*) FROM templates AS t WHERE t.measurement_rule_id = mr.id) AS template_count").
			Order("mr.created_at DESC")
	})
}

func (r *MeasurementRule) GetRuleByID(ctx context.Context, id string) (*model.MeasurementRule, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			Relation("Items", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.Order("mri.position ASC")
			}).
			Where("mr.id = ?", id)
	})
}

// Row lock modes for LockRule.
const (
	LockForUpdate = "UPDATE"
	LockForShare  = "SHARE"
)

func (r *MeasurementRule) lockQuery(q *bun.SelectQuery, id string, mode string) *bun.SelectQuery {
	q = q.Column("mr.id").Where("mr.id = ?", id)
	// sqlite has no row locks and serializes writers on the database lock
	if r.db.Dialect().Name() == dialect.PG {
		q = q.For(mode)
	}
	return q
}

// LockRule locks the rule row until the surrounding transaction ends. Writers of
// the rule take LockForUpdate, transactions that snapshot its items take
// LockForShare, so a template cannot bind to a rule that is being edited.
func (r *MeasurementRule) LockRule(ctx context.Context, id string, mode string) error {
	_, err := r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return r.lockQuery(q, id, mode)
	})
	return err
}

func (r *MeasurementRule) ExistsByID(ctx context.Context, id string) (bool, error) {
	return r.db.NewSelect().
		Model((*model.MeasurementRule)(nil)).
		Where("mr.id = ?", id).
		Exists(ctx)
}

// ExistsByName reports whether another rule than excludeID already uses name.
func (r *MeasurementRule) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	q := r.db.NewSelect().
		Model((*model.MeasurementRule)(nil)).
		Where("mr.rule_name = ?", name)
	if excludeID != "" {
		q = q.Where("mr.id <> ?", excludeID)
	}
	return q.Exists(ctx)
}

// ExistsByCombination reports whether another rule than excludeID already covers the garment combination.
func (r *MeasurementRule) ExistsByCombination(ctx context.Context, categorySmall, sleeveType, neckLineType string, excludeID string) (bool, error) {
	q := r.db.NewSelect().
		Model((*model.MeasurementRule)(nil)).
		Where("mr.category_small = ?", categorySmall).
		Where("mr.sleeve_type = ?", sleeveType).
		Where("mr.neck_line_type = ?", neckLineType)
	if excludeID != "" {
		q = q.Where("mr.id <> ?", excludeID)
	}
	return q.Exists(ctx)
}

func (r *MeasurementRule) CreateRule(ctx context.Context, rule *model.MeasurementRule) error {
	_, err := r.db.NewInsert().Model(rule).Exec(ctx)
	return TranslateWriteErrorAs(err, "measurement rule", ruleConstraintAliases)
}

func (r *MeasurementRule) UpdateRule(ctx context.Context, rule *model.MeasurementRule) error {
	_, err := r.db.NewUpdate().
		Model(rule).
		Column("category_large", "category_medium", "category_small", "sleeve_type", "neck_line_type", "rule_name", "updated_at").
		WherePK().
		Exec(ctx)
	return TranslateWriteErrorAs(err, "measurement rule", ruleConstraintAliases)
}

// DeleteRule removes the rule; its items go with it through the cascading foreign key.
func (r *MeasurementRule) DeleteRule(ctx context.Context, id string) (int64, error) {
	res, err := r.db.NewDelete().
		Model((*model.MeasurementRule)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return 0, TranslateWriteError(err, "measurement rule")
	}
	return res.RowsAffected()
}

func (r *MeasurementRule) GetItemsByRuleID(ctx context.Context, ruleID string) ([]*model.MeasurementRuleItem, error) {
	items := []*model.MeasurementRuleItem{}
	err := r.db.NewSelect().
		Model(&items).
		Where("mri.rule_id = ?", ruleID).
		Order("mri.position ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MeasurementRule) InsertItems(ctx context.Context, items []*model.MeasurementRuleItem) error {
	if len(items) == 0 {
		return nil
	}
	_, err := r.db.NewInsert().Model(&items).Exec(ctx)
	return TranslateWriteError(err, "measurement rule item")
}

func (r *MeasurementRule) DeleteItemsByRuleID(ctx context.Context, ruleID string) error {
	_, err := r.db.NewDelete().
		Model((*model.MeasurementRuleItem)(nil)).
		Where("rule_id = ?", ruleID).
		Exec(ctx)
	return err
}

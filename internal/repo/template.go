package repo

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/highgarden7/dddorok-admin-backend/internal/model"
	"github.com/highgarden7/dddorok-admin-backend/internal/repo/selector"
)

type Template struct {
	db  bun.IDB
	sel selector.S[model.Template]
}

func NewTemplate(db *bun.DB) *Template {
	return newTemplate(db)
}

func newTemplate(db bun.IDB) *Template {
	return &Template{db: db, sel: selector.New[model.Template](db)}
}

func (r *Template) WithTx(tx bun.IDB) *Template {
	return newTemplate(tx)
}

func orderedChartTypeMaps(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr(`"tctm"."order" ASC`)
}

func (r *Template) GetTemplates(ctx context.Context) ([]*model.Template, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			Relation("ChartTypeMaps", orderedChartTypeMaps).
			Relation("ChartTypeMaps.ChartType").
			Order("t.created_at DESC")
	})
}

func (r *Template) GetTemplatesByRuleID(ctx context.Context, ruleID string) ([]*model.Template, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			Relation("ChartTypeMaps", orderedChartTypeMaps).
			Relation("ChartTypeMaps.ChartType").
			Where("t.measurement_rule_id = ?", ruleID).
			Order("t.created_at DESC")
	})
}

func (r *Template) GetTemplateByID(ctx context.Context, id string) (*model.Template, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			Relation("ChartTypeMaps", orderedChartTypeMaps).
			Relation("ChartTypeMaps.ChartType").
			Where("t.id = ?", id)
	})
}

func (r *Template) ExistsByID(ctx context.Context, id string) (bool, error) {
	return r.db.NewSelect().
		Model((*model.Template)(nil)).
		Where("t.id = ?", id).
		Exists(ctx)
}

func (r *Template) CountByRuleID(ctx context.Context, ruleID string) (int, error) {
	return r.db.NewSelect().
		Model((*model.Template)(nil)).
		Where("t.measurement_rule_id = ?", ruleID).
		Count(ctx)
}

func (r *Template) CreateTemplate(ctx context.Context, template *model.Template) error {
	_, err := r.db.NewInsert().Model(template).Exec(ctx)
	return TranslateWriteError(err, "template")
}

func (r *Template) UpdateTemplate(ctx context.Context, template *model.Template) error {
	_, err := r.db.NewUpdate().
		Model(template).
		Column("name", "needle_type", "pattern_style", "construction_methods", "updated_at").
		WherePK().
		Exec(ctx)
	return TranslateWriteError(err, "template")
}

func (r *Template) UpdatePublishStatus(ctx context.Context, template *model.Template) error {
	_, err := r.db.NewUpdate().
		Model(template).
		Column("is_published", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}

// DeleteTemplate removes the template; its measurement values cascade. Chart type maps
// have to be removed beforehand.
func (r *Template) DeleteTemplate(ctx context.Context, id string) (int64, error) {
	res, err := r.db.NewDelete().
		Model((*model.Template)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return 0, TranslateWriteError(err, "template")
	}
	return res.RowsAffected()
}

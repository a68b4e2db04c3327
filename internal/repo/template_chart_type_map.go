package repo

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/highgarden7/dddorok-admin-backend/internal/model"
	"github.com/highgarden7/dddorok-admin-backend/internal/model/types"
	"github.com/highgarden7/dddorok-admin-backend/internal/repo/selector"
)

type TemplateChartTypeMap struct {
	db  bun.IDB
	sel selector.S[model.TemplateChartTypeMap]
}

func NewTemplateChartTypeMap(db *bun.DB) *TemplateChartTypeMap {
	return newTemplateChartTypeMap(db)
}

func newTemplateChartTypeMap(db bun.IDB) *TemplateChartTypeMap {
	return &TemplateChartTypeMap{db: db, sel: selector.New[model.TemplateChartTypeMap](db)}
}

func (r *TemplateChartTypeMap) WithTx(tx bun.IDB) *TemplateChartTypeMap {
	return newTemplateChartTypeMap(tx)
}

// ReplaceAllForTemplate swaps the whole mapping set of a template. Callers run it
// inside a transaction so the delete and the insert commit together.
func (r *TemplateChartTypeMap) ReplaceAllForTemplate(ctx context.Context, templateID string, maps []*model.TemplateChartTypeMap) error {
	if err := r.DeleteAllForTemplate(ctx, templateID); err != nil {
		return err
	}
	if len(maps) == 0 {
		return nil
	}
	_, err := r.db.NewInsert().Model(&maps).Exec(ctx)
	return TranslateWriteError(err, "template chart type map")
}

func (r *TemplateChartTypeMap) DeleteAllForTemplate(ctx context.Context, templateID string) error {
	_, err := r.db.NewDelete().
		Model((*model.TemplateChartTypeMap)(nil)).
		Where("template_id = ?", templateID).
		Exec(ctx)
	return err
}

func (r *TemplateChartTypeMap) GetMapsByTemplateID(ctx context.Context, templateID string) ([]*model.TemplateChartTypeMap, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			Relation("ChartType").
			Where("tctm.template_id = ?", templateID).
			OrderExpr(`"tctm"."order" ASC`)
	})
}

func (r *TemplateChartTypeMap) CountByChartTypeID(ctx context.Context, chartTypeID string) (int, error) {
	return r.db.NewSelect().
		Model((*model.TemplateChartTypeMap)(nil)).
		Where("tctm.chart_type_id = ?", chartTypeID).
		Count(ctx)
}

// GetTemplateRefsByChartTypeID lists the templates currently linking to a chart type.
func (r *TemplateChartTypeMap) GetTemplateRefsByChartTypeID(ctx context.Context, chartTypeID string) ([]*types.TemplateRef, error) {
	refs := []*types.TemplateRef{}
	err := r.db.NewSelect().
		TableExpr("template_chart_type_maps AS tctm").
		Join("JOIN templates AS t ON t.id = tctm.template_id").
		ColumnExpr("t.id AS id").
		ColumnExpr("t.name AS name").
		Where("tctm.chart_type_id = ?", chartTypeID).
		Order("t.name ASC").
		Scan(ctx, &refs)
	if err != nil {
		return nil, err
	}
	return refs, nil
}

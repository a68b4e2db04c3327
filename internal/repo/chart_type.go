package repo

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/highgarden7/dddorok-admin-backend/internal/model"
	"github.com/highgarden7/dddorok-admin-backend/internal/repo/selector"
)

var chartTypeConstraintAliases = map[string]string{
	"chart_types_category_key": model.ConstraintChartTypeCategory,
	"chart_types.category_large, chart_types.category_medium, chart_types.section, chart_types.detail_type": model.ConstraintChartTypeCategory,
}

type ChartType struct {
	db  bun.IDB
	sel selector.S[model.ChartType]
}

func NewChartType(db *bun.DB) *ChartType {
	return newChartType(db)
}

func newChartType(db bun.IDB) *ChartType {
	return &ChartType{db: db, sel: selector.New[model.ChartType](db)}
}

func (r *ChartType) WithTx(tx bun.IDB) *ChartType {
	return newChartType(tx)
}

func orderedCodeMaps(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Order("ctcm.measurement_code ASC", "ctcm.path_id ASC")
}

// GetChartTypes lists chart types newest first with their code maps and live template counts.
func (r *ChartType) GetChartTypes(ctx context.Context) ([]*model.ChartType, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			ColumnExpr("ct.*").
			ColumnExpr("(SELECT COUNT(*) FROM template_chart_type_maps AS tctm WHERE tctm.chart_type_id = ct.id) AS template_count").
			Relation("CodeMaps", orderedCodeMaps).
			Order("ct.created_at DESC")
	})
}

func (r *ChartType) GetChartTypeByID(ctx context.Context, id string) (*model.ChartType, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			Relation("SvgFile").
			Relation("CodeMaps", orderedCodeMaps).
			Where("ct.id = ?", id)
	})
}

func (r *ChartType) GetChartTypesByIDs(ctx context.Context, ids []string) ([]*model.ChartType, error) {
	if len(ids) == 0 {
		return []*model.ChartType{}, nil
	}
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("ct.id IN (?)", bun.In(ids))
	})
}

func (r *ChartType) ExistsByID(ctx context.Context, id string) (bool, error) {
	return r.db.NewSelect().
		Model((*model.ChartType)(nil)).
		Where("ct.id = ?", id).
		Exists(ctx)
}

func (r *ChartType) ExistsByCategory(ctx context.Context, categoryLarge, categoryMedium, section, detailType string) (bool, error) {
	return r.db.NewSelect().
		Model((*model.ChartType)(nil)).
		Where("ct.category_large = ?", categoryLarge).
		Where("ct.category_medium = ?", categoryMedium).
		Where("ct.section = ?", section).
		Where("ct.detail_type = ?", detailType).
		Exists(ctx)
}

func (r *ChartType) CreateChartType(ctx context.Context, chartType *model.ChartType) error {
	_, err := r.db.NewInsert().Model(chartType).Exec(ctx)
	return TranslateWriteErrorAs(err, "chart type", chartTypeConstraintAliases)
}

// DeleteChartType removes the chart type; its code maps cascade, its resource stays for the reclaimer.
func (r *ChartType) DeleteChartType(ctx context.Context, id string) (int64, error) {
	res, err := r.db.NewDelete().
		Model((*model.ChartType)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return 0, TranslateWriteError(err, "chart type")
	}
	return res.RowsAffected()
}

func (r *ChartType) InsertCodeMaps(ctx context.Context, maps []*model.ChartTypeCodeMap) error {
	if len(maps) == 0 {
		return nil
	}
	_, err := r.db.NewInsert().Model(&maps).Exec(ctx)
	return TranslateWriteError(err, "chart type code map")
}

func (r *ChartType) DeleteCodeMapsByChartTypeID(ctx context.Context, chartTypeID string) error {
	_, err := r.db.NewDelete().
		Model((*model.ChartTypeCodeMap)(nil)).
		Where("chart_type_id = ?", chartTypeID).
		Exec(ctx)
	return err
}

func (r *ChartType) TouchChartType(ctx context.Context, chartType *model.ChartType) error {
	_, err := r.db.NewUpdate().
		Model(chartType).
		Column("updated_at").
		WherePK().
		Exec(ctx)
	return err
}

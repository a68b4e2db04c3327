package repo

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/highgarden7/dddorok-admin-backend/internal/model"
	"github.com/highgarden7/dddorok-admin-backend/internal/repo/selector"
)

type TemplateMeasurementValue struct {
	db  bun.IDB
	sel selector.S[model.TemplateMeasurementValue]
}

func NewTemplateMeasurementValue(db *bun.DB) *TemplateMeasurementValue {
	return newTemplateMeasurementValue(db)
}

func newTemplateMeasurementValue(db bun.IDB) *TemplateMeasurementValue {
	return &TemplateMeasurementValue{db: db, sel: selector.New[model.TemplateMeasurementValue](db)}
}

func (r *TemplateMeasurementValue) WithTx(tx bun.IDB) *TemplateMeasurementValue {
	return newTemplateMeasurementValue(tx)
}

func (r *TemplateMeasurementValue) GetValuesByTemplateID(ctx context.Context, templateID string) ([]*model.TemplateMeasurementValue, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			Where("tmv.template_id = ?", templateID).
			Order("tmv.position ASC")
	})
}

func (r *TemplateMeasurementValue) InsertValues(ctx context.Context, values []*model.TemplateMeasurementValue) error {
	if len(values) == 0 {
		return nil
	}
	_, err := r.db.NewInsert().Model(&values).Exec(ctx)
	return TranslateWriteError(err, "template measurement value")
}

// UpdateValue writes the numeric columns of the row matching both value.ID and
// value.TemplateID, and reports whether such a row existed.
func (r *TemplateMeasurementValue) UpdateValue(ctx context.Context, value *model.TemplateMeasurementValue) (bool, error) {
	res, err := r.db.NewUpdate().
		Model(value).
		Column(model.MeasurementValueColumns...).
		Where("id = ?", value.ID).
		Where("template_id = ?", value.TemplateID).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

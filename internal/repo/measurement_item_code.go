package repo

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/highgarden7/dddorok-admin-backend/internal/model"
	"github.com/highgarden7/dddorok-admin-backend/internal/repo/selector"
)

type MeasurementItemCode struct {
	db  bun.IDB
	sel selector.S[model.MeasurementItemCode]
}

func NewMeasurementItemCode(db *bun.DB) *MeasurementItemCode {
	return newMeasurementItemCode(db)
}

func newMeasurementItemCode(db bun.IDB) *MeasurementItemCode {
	return &MeasurementItemCode{db: db, sel: selector.New[model.MeasurementItemCode](db)}
}

// WithTx returns a copy of the repository bound to tx.
func (r *MeasurementItemCode) WithTx(tx bun.IDB) *MeasurementItemCode {
	return newMeasurementItemCode(tx)
}

func (r *MeasurementItemCode) GetCodes(ctx context.Context, category string) ([]*model.MeasurementItemCode, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		if category != "" {
			q = q.Where("mic.category = ?", category)
		}
		return q.Order("mic.category ASC", "mic.section ASC", "mic.code ASC")
	})
}

// FindByCodes returns the subset of codes present in the catalog.
func (r *MeasurementItemCode) FindByCodes(ctx context.Context, codes []string) ([]*model.MeasurementItemCode, error) {
	if len(codes) == 0 {
		return []*model.MeasurementItemCode{}, nil
	}
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("mic.code IN (?)", bun.In(codes))
	})
}

// UpsertCodes inserts catalog rows, refreshing category, section and label of existing codes.
func (r *MeasurementItemCode) UpsertCodes(ctx context.Context, codes []*model.MeasurementItemCode) (int64, error) {
	if len(codes) == 0 {
		return 0, nil
	}
	res, err := r.db.NewInsert().
		Model(&codes).
		On("CONFLICT (code) DO UPDATE").
		Set("category = EXCLUDED.category").
		Set("section = EXCLUDED.section").
		Set("label = EXCLUDED.label").
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

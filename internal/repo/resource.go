package repo

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/highgarden7/dddorok-admin-backend/internal/model"
	"github.com/highgarden7/dddorok-admin-backend/internal/repo/selector"
)

type Resource struct {
	db  bun.IDB
	sel selector.S[model.Resource]
}

func NewResource(db *bun.DB) *Resource {
	return newResource(db)
}

func newResource(db bun.IDB) *Resource {
	return &Resource{db: db, sel: selector.New[model.Resource](db)}
}

func (r *Resource) WithTx(tx bun.IDB) *Resource {
	return newResource(tx)
}

func (r *Resource) GetResourceByID(ctx context.Context, id string) (*model.Resource, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("r.id = ?", id)
	})
}

func (r *Resource) ExistsByID(ctx context.Context, id string) (bool, error) {
	return r.db.NewSelect().
		Model((*model.Resource)(nil)).
		Where("r.id = ?", id).
		Exists(ctx)
}

func (r *Resource) CreateResource(ctx context.Context, resource *model.Resource) error {
	_, err := r.db.NewInsert().Model(resource).Exec(ctx)
	return TranslateWriteError(err, "resource")
}

// UpdateResourceKey sets the blob key once the object is stored.
func (r *Resource) UpdateResourceKey(ctx context.Context, resource *model.Resource) error {
	_, err := r.db.NewUpdate().
		Model(resource).
		Column("rsc_url", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}

// GetOrphanedResources returns resources created before cutoff that no chart type references.
func (r *Resource) GetOrphanedResources(ctx context.Context, cutoff time.Time) ([]*model.Resource, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			Where("r.created_at < ?", cutoff).
			Where("NOT EXISTS (?)", r.db.NewSelect().
				TableExpr("chart_types AS ct").
				ColumnExpr("1").
				Where("ct.svg_file_id = r.id")).
			Order("r.created_at ASC")
	})
}

// DeleteUnreferencedResource deletes the row only while no chart type points at it.
// It reports whether a row was removed.
func (r *Resource) DeleteUnreferencedResource(ctx context.Context, id string) (bool, error) {
	res, err := r.db.NewDelete().
		Model((*model.Resource)(nil)).
		Where("id = ?", id).
		Where("NOT EXISTS (?)", r.db.NewSelect().
			TableExpr("chart_types AS ct").
			ColumnExpr("1").
			Where("ct.svg_file_id = ?", id)).
		Exec(ctx)
	if err != nil {
		return false, TranslateWriteError(err, "resource")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ExistsByKey reports whether any resource row still records the blob key.
func (r *Resource) ExistsByKey(ctx context.Context, key string) (bool, error) {
	return r.db.NewSelect().
		Model((*model.Resource)(nil)).
		Where("r.rsc_url = ?", key).
		Exists(ctx)
}

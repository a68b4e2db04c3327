package selector

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/dderr"
)

// S runs typed selects against a bun.IDB, which is either the pool or a
// transaction handed out by RunInTx.
type S[T any] struct {
	DB bun.IDB
}

func New[T any](db bun.IDB) S[T] {
	return S[T]{
		DB: db,
	}
}

func (r S[T]) SelectOne(ctx context.Context, fn func(q *bun.SelectQuery) *bun.SelectQuery) (*T, error) {
	var model T
	err := fn(r.DB.NewSelect().Model(&model)).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dderr.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return &model, nil
}

// SelectMany returns an empty, non-nil slice when nothing matches.
func (r S[T]) SelectMany(ctx context.Context, fn func(q *bun.SelectQuery) *bun.SelectQuery) ([]*T, error) {
	model := []*T{}
	err := fn(r.DB.NewSelect().Model(&model)).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	} else if err != nil {
		return nil, err
	}

	return model, nil
}

package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/dderr"
	"github.com/highgarden7/dddorok-admin-backend/internal/repo"
)

func TestLockRule(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	rule := newRule("Raglan", "RAGLAN")
	require.NoError(t, r.Rules.CreateRule(ctx, rule))

	err := r.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return r.Rules.WithTx(tx).LockRule(ctx, rule.ID, repo.LockForUpdate)
	})
	require.NoError(t, err)

	err = r.Rules.LockRule(ctx, uuid.NewString(), repo.LockForShare)
	require.ErrorIs(t, err, dderr.ErrNotFound)
}

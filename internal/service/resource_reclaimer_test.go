package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/highgarden7/dddorok-admin-backend/internal/model"
	"github.com/highgarden7/dddorok-admin-backend/internal/model/types"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/blobstore"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/dderr"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/mutex"
	"github.com/highgarden7/dddorok-admin-backend/internal/service"
)

const pastGrace = 100 * time.Hour

func (e *env) reclaimerWith(store blobstore.Store, m mutex.Mutex) *service.ResourceReclaimer {
	return service.NewResourceReclaimer(service.ResourceReclaimerDeps{
		DB:           e.DB,
		Config:       e.Config,
		ResourceRepo: e.ResourceRepo,
		Blob:         store,
		Mutex:        m,
	})
}

func (e *env) blobExists(key string) bool {
	_, _, ok := e.Memory.Get(key)
	return ok
}

func TestReclaimOrphans(t *testing.T) {
	e := newEnv(t)

	old := e.uploadSvg(t)
	e.backdate(t, old.ResourceID, pastGrace)
	young := e.uploadSvg(t)
	referenced := e.createChartType(t, "RAGLAN")
	e.backdate(t, referenced.SvgFileID, pastGrace)

	report, err := e.Reclaimer.RunNow(e.ctx, types.ReclaimTriggerManual)
	require.NoError(t, err)

	assert.False(t, report.Skipped)
	assert.Equal(t, types.ReclaimTriggerManual, report.Trigger)
	assert.Equal(t, 1, report.Candidates)
	assert.Equal(t, 1, report.Reclaimed)
	assert.Zero(t, report.Failed)
	assert.False(t, report.FinishedAt.Before(report.StartedAt))

	_, err = e.ResourceRepo.GetResourceByID(e.ctx, old.ResourceID)
	assert.ErrorIs(t, err, dderr.ErrNotFound)
	assert.False(t, e.blobExists(service.SvgKey(old.ResourceID)))

	for _, id := range []string{young.ResourceID, referenced.SvgFileID} {
		_, err = e.ResourceRepo.GetResourceByID(e.ctx, id)
		assert.NoError(t, err)
		assert.True(t, e.blobExists(service.SvgKey(id)))
	}
}

func TestReclaimFreedByChartTypeDeletion(t *testing.T) {
	e := newEnv(t)
	chartType := e.createChartType(t, "RAGLAN")
	e.backdate(t, chartType.SvgFileID, pastGrace)

	report, err := e.Reclaimer.RunNow(e.ctx, types.ReclaimTriggerManual)
	require.NoError(t, err)
	assert.Zero(t, report.Candidates)

	require.NoError(t, e.ChartTypes.DeleteChartType(e.ctx, chartType.ID))

	report, err = e.Reclaimer.RunNow(e.ctx, types.ReclaimTriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Reclaimed)
	assert.Zero(t, e.count(t, (*model.Resource)(nil)))
}

func TestReclaimBlobFailure(t *testing.T) {
	e := newEnv(t)

	failing := e.uploadSvg(t)
	e.backdate(t, failing.ResourceID, pastGrace)
	ok := e.uploadSvg(t)
	e.backdate(t, ok.ResourceID, pastGrace)

	fs := &faultyStore{
		Store:      e.Memory,
		failDelete: map[string]bool{service.SvgKey(failing.ResourceID): true},
	}
	report, err := e.reclaimerWith(fs, mutex.NewLocal()).RunNow(e.ctx, types.ReclaimTriggerCLI)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Candidates)
	assert.Equal(t, 1, report.Reclaimed)
	assert.Equal(t, 1, report.Failed)
	assert.Zero(t, report.StrayBlobs, "a blob whose row survived is not stray")

	_, err = e.ResourceRepo.GetResourceByID(e.ctx, failing.ResourceID)
	assert.NoError(t, err, "row deletion rolls back with the failed blob deletion")
	assert.True(t, e.blobExists(service.SvgKey(failing.ResourceID)))

	_, err = e.ResourceRepo.GetResourceByID(e.ctx, ok.ResourceID)
	assert.ErrorIs(t, err, dderr.ErrNotFound)

	// the failed candidate is picked up again once the store recovers
	report, err = e.Reclaimer.RunNow(e.ctx, types.ReclaimTriggerCLI)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Reclaimed)
	assert.Zero(t, report.Failed)
}

func TestReclaimStrayBlobs(t *testing.T) {
	e := newEnv(t)

	oldStray := service.SvgKey(uuid.NewString())
	youngStray := service.SvgKey(uuid.NewString())
	outside := "public/other/" + uuid.NewString() + ".png"
	for _, key := range []string{oldStray, youngStray, outside} {
		require.NoError(t, e.Memory.Put(e.ctx, key, []byte("<svg/>"), service.SvgContentType))
	}
	e.Memory.Touch(oldStray, time.Now().Add(-pastGrace))
	e.Memory.Touch(outside, time.Now().Add(-pastGrace))

	owned := e.uploadSvg(t)
	e.Memory.Touch(service.SvgKey(owned.ResourceID), time.Now().Add(-pastGrace))

	report, err := e.Reclaimer.RunNow(e.ctx, types.ReclaimTriggerManual)
	require.NoError(t, err)

	assert.Equal(t, 1, report.StrayBlobs)
	assert.Equal(t, 1, report.StrayBlobsReclaimed)
	assert.False(t, e.blobExists(oldStray))
	assert.True(t, e.blobExists(youngStray))
	assert.True(t, e.blobExists(outside))
	assert.True(t, e.blobExists(service.SvgKey(owned.ResourceID)))
}

func TestReclaimSkipsWhenLocked(t *testing.T) {
	e := newEnv(t)
	old := e.uploadSvg(t)
	e.backdate(t, old.ResourceID, pastGrace)

	m := mutex.NewLocal()
	locked, err := m.TryLock(context.Background())
	require.NoError(t, err)
	require.True(t, locked)

	report, err := e.reclaimerWith(e.Memory, m).RunNow(e.ctx, types.ReclaimTriggerSchedule)
	require.NoError(t, err)
	assert.True(t, report.Skipped)
	assert.Zero(t, report.Candidates)

	_, err = e.ResourceRepo.GetResourceByID(e.ctx, old.ResourceID)
	assert.NoError(t, err)

	require.NoError(t, m.Unlock(context.Background()))
	report, err = e.reclaimerWith(e.Memory, m).RunNow(e.ctx, types.ReclaimTriggerSchedule)
	require.NoError(t, err)
	assert.False(t, report.Skipped)
	assert.Equal(t, 1, report.Reclaimed)
}

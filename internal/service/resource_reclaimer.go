package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"github.com/highgarden7/dddorok-admin-backend/internal/app/appconfig"
	"github.com/highgarden7/dddorok-admin-backend/internal/model"
	"github.com/highgarden7/dddorok-admin-backend/internal/model/types"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/blobstore"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/mutex"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/observability"
	"github.com/highgarden7/dddorok-admin-backend/internal/repo"
)

var reclaimerTracer = otel.Tracer("reclaimer")

type ResourceReclaimerDeps struct {
	fx.In

	DB           *bun.DB
	Config       *appconfig.Config
	ResourceRepo *repo.Resource
	Blob         blobstore.Store
	Mutex        mutex.Mutex `name:"reclaimer"`
}

// ResourceReclaimer removes SVG resources no chart type references any more,
// together with their blobs, once they are older than the grace period.
type ResourceReclaimer struct {
	DB           *bun.DB
	Config       *appconfig.Config
	ResourceRepo *repo.Resource
	Blob         blobstore.Store

	lock mutex.Mutex
}

func NewResourceReclaimer(deps ResourceReclaimerDeps) *ResourceReclaimer {
	return &ResourceReclaimer{
		DB:           deps.DB,
		Config:       deps.Config,
		ResourceRepo: deps.ResourceRepo,
		Blob:         deps.Blob,
		lock:         deps.Mutex,
	}
}

// RunNow performs one sweep unless another one holds the sweep lock, in which
// case the returned report is marked as skipped.
func (s *ResourceReclaimer) RunNow(ctx context.Context, trigger string) (*types.ReclaimReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Config.ReclaimerTimeout)
	defer cancel()

	ctx, span := reclaimerTracer.Start(ctx, "reclaimer.RunNow",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("reclaim.trigger", trigger)))
	defer span.End()

	report := &types.ReclaimReport{
		Trigger:   trigger,
		StartedAt: time.Now().UTC(),
	}

	ok, err := s.lock.TryLock(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to acquire reclaimer lock")
	}
	if !ok {
		report.Skipped = true
		report.FinishedAt = time.Now().UTC()
		log.Info().
			Str("evt.name", "reclaim.skipped").
			Str("trigger", trigger).
			Msg("another sweep is in progress, skipping")
		return report, nil
	}
	defer func() {
		if err := s.lock.Unlock(context.WithoutCancel(ctx)); err != nil {
			log.Warn().
				Err(err).
				Str("evt.name", "reclaim.unlock.failed").
				Msg("failed to release reclaimer lock")
		}
	}()

	log.Info().
		Str("evt.name", "reclaim.started").
		Str("trigger", trigger).
		Dur("grace_period", s.Config.ReclaimerGracePeriod).
		Msg("resource sweep started")

	cutoff := report.StartedAt.Add(-s.Config.ReclaimerGracePeriod)
	if err := s.sweepResources(ctx, cutoff, report); err != nil {
		return nil, err
	}
	s.sweepStrayBlobs(ctx, cutoff, report)

	report.FinishedAt = time.Now().UTC()
	span.SetAttributes(
		attribute.Int("reclaim.reclaimed", report.Reclaimed),
		attribute.Int("reclaim.failed", report.Failed),
	)
	observability.ReclaimDuration.WithLabelValues(trigger).Set(report.FinishedAt.Sub(report.StartedAt).Seconds())

	log.Info().
		Str("evt.name", "reclaim.finished").
		Str("trigger", trigger).
		Int("candidates", report.Candidates).
		Int("reclaimed", report.Reclaimed).
		Int("stray_blobs", report.StrayBlobs).
		Int("stray_blobs_reclaimed", report.StrayBlobsReclaimed).
		Int("failed", report.Failed).
		Dur("took", report.FinishedAt.Sub(report.StartedAt)).
		Msg("resource sweep finished")

	return report, nil
}

// sweepResources reclaims orphaned resource rows. Only the candidate query
// failing aborts the sweep; every candidate is handled on its own.
func (s *ResourceReclaimer) sweepResources(ctx context.Context, cutoff time.Time, report *types.ReclaimReport) error {
	candidates, err := s.ResourceRepo.GetOrphanedResources(ctx, cutoff)
	if err != nil {
		return errors.Wrap(err, "failed to list orphaned resources")
	}
	report.Candidates = len(candidates)
	observability.ReclaimCandidates.Set(float64(len(candidates)))

	for _, resource := range candidates {
		if ctx.Err() != nil {
			log.Warn().
				Err(ctx.Err()).
				Str("evt.name", "reclaim.interrupted").
				Msg("sweep interrupted, remaining candidates wait for the next run")
			break
		}

		outcome, err := s.reclaim(ctx, resource)
		observability.ReclaimOutcome.WithLabelValues(outcome).Inc()

		l := log.With().
			Str("resource_id", resource.ID).
			Str("key", resource.RscURL).
			Time("created_at", resource.CreatedAt).
			Logger()
		switch {
		case err != nil:
			report.Failed++
			l.Error().
				Err(err).
				Str("evt.name", "reclaim.candidate."+outcome).
				Msg("failed to reclaim resource")
		case outcome == "referenced":
			l.Info().
				Str("evt.name", "reclaim.candidate.referenced").
				Msg("resource became referenced during the sweep, kept")
		default:
			report.Reclaimed++
			l.Info().
				Str("evt.name", "reclaim.candidate.deleted").
				Msg("resource reclaimed")
		}
	}

	return nil
}

// reclaim deletes the row inside a transaction, and the blob before that
// transaction commits. A blob failure rolls the row deletion back so the
// candidate is found again by the next run.
func (s *ResourceReclaimer) reclaim(ctx context.Context, resource *model.Resource) (string, error) {
	outcome := "deleted"
	err := s.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		deleted, err := s.ResourceRepo.WithTx(tx).DeleteUnreferencedResource(ctx, resource.ID)
		if err != nil {
			outcome = "row_failed"
			return err
		}
		if !deleted {
			outcome = "referenced"
			return nil
		}

		if resource.RscURL == "" || resource.RscURL == pendingSvgKey {
			return nil
		}
		if err := s.Blob.Delete(ctx, resource.RscURL); err != nil {
			outcome = "blob_failed"
			return errors.Wrap(err, "failed to delete blob")
		}
		return nil
	})
	return outcome, err
}

// sweepStrayBlobs deletes stored SVGs that never got a committed resource row,
// e.g. when an upload failed after its blob was written.
func (s *ResourceReclaimer) sweepStrayBlobs(ctx context.Context, cutoff time.Time, report *types.ReclaimReport) {
	objects, err := s.Blob.List(ctx, SvgKeyPrefix)
	if err != nil {
		report.Failed++
		log.Error().
			Err(err).
			Str("evt.name", "reclaim.stray.list.failed").
			Msg("failed to list stored svg blobs")
		return
	}

	for _, object := range objects {
		if ctx.Err() != nil {
			break
		}
		if !object.LastModified.Before(cutoff) {
			continue
		}

		known, err := s.ResourceRepo.ExistsByKey(ctx, object.Key)
		if err != nil {
			report.Failed++
			log.Error().
				Err(err).
				Str("evt.name", "reclaim.stray.lookup.failed").
				Str("key", object.Key).
				Msg("failed to look up blob owner")
			continue
		}
		if known {
			continue
		}

		report.StrayBlobs++
		if err := s.Blob.Delete(ctx, object.Key); err != nil {
			report.Failed++
			observability.ReclaimOutcome.WithLabelValues("stray_failed").Inc()
			log.Error().
				Err(err).
				Str("evt.name", "reclaim.stray.failed").
				Str("key", object.Key).
				Msg("failed to delete stray blob")
			continue
		}

		report.StrayBlobsReclaimed++
		observability.ReclaimOutcome.WithLabelValues("stray_deleted").Inc()
		log.Info().
			Str("evt.name", "reclaim.stray.deleted").
			Str("key", object.Key).
			Time("last_modified", object.LastModified).
			Msg("stray blob reclaimed")
	}
}

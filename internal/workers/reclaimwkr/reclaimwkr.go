// Package reclaimwkr runs the resource reclaimer once a day at a configured
// wall-clock time.
package reclaimwkr

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/highgarden7/dddorok-admin-backend/internal/app/appconfig"
	"github.com/highgarden7/dddorok-admin-backend/internal/app/appcontext"
	"github.com/highgarden7/dddorok-admin-backend/internal/model/types"
	"github.com/highgarden7/dddorok-admin-backend/internal/service"
)

type WorkerDeps struct {
	fx.In
	ResourceReclaimer *service.ResourceReclaimer
}

type Worker struct {
	// count counts sweeps the worker has started so far
	count int

	// offset is the time of day, from local midnight in loc, a sweep starts at
	offset time.Duration
	loc    *time.Location

	// deps
	WorkerDeps
}

func Start(conf *appconfig.Config, deps WorkerDeps, lc fx.Lifecycle) error {
	if !conf.ReclaimerEnabled || conf.AppContext.Env == appcontext.EnvCLI {
		log.Info().
			Str("evt.name", "reclaim.schedule.disabled").
			Msg("scheduled resource reclaimer is disabled in this process")
		return nil
	}

	offset, loc, err := conf.ReclaimerClock()
	if err != nil {
		return err
	}

	w := &Worker{
		offset:     offset,
		loc:        loc,
		WorkerDeps: deps,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				w.run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
	return nil
}

func (w *Worker) run(ctx context.Context) {
	for {
		next := NextRun(time.Now(), w.offset, w.loc)
		log.Info().
			Str("evt.name", "reclaim.schedule.next").
			Time("at", next).
			Msg("next resource sweep scheduled")

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		w.count++
		report, err := w.ResourceReclaimer.RunNow(ctx, types.ReclaimTriggerSchedule)
		if err != nil {
			log.Error().
				Err(err).
				Str("evt.name", "reclaim.schedule.failed").
				Int("count", w.count).
				Msg("scheduled resource sweep failed")
			continue
		}
		log.Debug().
			Str("evt.name", "reclaim.schedule.done").
			Int("count", w.count).
			Bool("skipped", report.Skipped).
			Msg("scheduled resource sweep done")
	}
}

// NextRun returns the first instant strictly after now at which the wall clock
// in loc shows offset past midnight.
func NextRun(now time.Time, offset time.Duration, loc *time.Location) time.Time {
	local := now.In(loc)
	hour, minute := int(offset/time.Hour), int(offset%time.Hour/time.Minute)

	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, minute, 0, 0, loc)
	}
	return next
}

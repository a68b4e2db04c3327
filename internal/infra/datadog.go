package infra

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"

	"github.com/highgarden7/dddorok-admin-backend/internal/app/appconfig"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/bininfo"
)

func Datadog(conf *appconfig.Config, lc fx.Lifecycle) {
	if !conf.DatadogProfilerEnabled || conf.DevMode {
		log.Info().
			Str("evt.name", "infra.datadog.disabled").
			Bool("dev_mode", conf.DevMode).
			Msg("datadog profiler is disabled")
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			err := profiler.Start(
				profiler.WithService(bininfo.Name),
				profiler.WithEnv("prod"),
				profiler.WithVersion(bininfo.Version),
				profiler.WithAgentAddr(conf.DatadogProfilerAgentAddress),
				profiler.WithProfileTypes(profiler.CPUProfile, profiler.HeapProfile),
				profiler.WithTags("process:"+conf.AppContext.Env.String()),
			)
			if err != nil {
				// the profiler is optional, startup continues without it
				log.Error().
					Err(err).
					Str("evt.name", "infra.datadog.error").
					Msg("datadog profiler failed to start")
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			profiler.Stop()
			return nil
		},
	})
}

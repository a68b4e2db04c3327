package infra

import (
	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog/log"

	"github.com/highgarden7/dddorok-admin-backend/internal/app/appconfig"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/bininfo"
)

// SentryInit initializes sentry with side-effect
func SentryInit(conf *appconfig.Config) error {
	if conf.SentryDSN == "" {
		log.Warn().Msg("Sentry is disabled due to missing DSN.")
		return nil
	}

	log.Info().Msg("Initializing Sentry...")
	return sentry.Init(sentry.ClientOptions{
		Dsn:              conf.SentryDSN,
		Release:          bininfo.Name + "@" + bininfo.Version,
		Environment:      conf.AppContext.Env.String(),
		Debug:            conf.DevMode,
		AttachStacktrace: true,
		TracesSampleRate: 0.01,
	})
}

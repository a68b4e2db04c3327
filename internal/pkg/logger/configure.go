package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/highgarden7/dddorok-admin-backend/internal/app/appconfig"
)

func Configure(conf *appconfig.Config) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	var level zerolog.Level
	if conf.DevMode {
		level = zerolog.TraceLevel
	} else {
		level = zerolog.DebugLevel
	}

	var stdout io.Writer
	if conf.LogJsonStdout {
		stdout = os.Stdout
	} else {
		stdout = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339Nano,
		}
	}

	writers := []io.Writer{stdout}
	if conf.LogFile != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   conf.LogFile,
			MaxSize:    100, // megabytes
			MaxBackups: 10,
			MaxAge:     30, // days
			Compress:   true,
		})
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Str("env", conf.AppContext.Env.String()).
		Logger().
		Level(level)
}

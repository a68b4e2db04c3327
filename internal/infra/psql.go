package infra

import (
	"context"
	"database/sql"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	"github.com/uptrace/bun/extra/bunotel"
	"go.uber.org/fx"
	_ "modernc.org/sqlite"

	"github.com/highgarden7/dddorok-admin-backend/internal/app/appconfig"
)

func Postgres(conf *appconfig.Config, lc fx.Lifecycle) (*bun.DB, error) {
	var db *bun.DB

	switch conf.DatabaseDriver {
	case appconfig.DatabaseDriverSQLite:
		sqldb, err := sql.Open("sqlite", conf.SQLiteDSN)
		if err != nil {
			return nil, errors.Wrap(err, "infra: sqlite: failed to open database")
		}
		// sqlite serializes writers; a single connection keeps transactions from
		// deadlocking against pooled readers
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	default:
		pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(conf.PostgresDSN)))
		pgdb.SetMaxOpenConns(conf.PostgresMaxOpenConns)
		pgdb.SetMaxIdleConns(conf.PostgresMaxIdleConns)
		pgdb.SetConnMaxLifetime(conf.PostgresConnMaxLifeTime)
		pgdb.SetConnMaxIdleTime(conf.PostgresConnMaxIdleTime)
		db = bun.NewDB(pgdb, pgdialect.New())
	}

	db.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithVerbose(conf.BunDebugVerbose),
		bundebug.WithEnabled(conf.DevMode),
	))
	if conf.TracingEnabled {
		db.AddQueryHook(bunotel.NewQueryHook(bunotel.WithDBName("dddorok")))
	}

	// the database may still be starting next to us, e.g. under docker compose
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	err := retry.Do(
		func() error {
			return db.PingContext(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().
				Err(err).
				Uint("attempt", n+1).
				Str("driver", conf.DatabaseDriver).
				Msg("infra: database: ping failed, retrying")
		}),
	)
	if err != nil {
		log.Error().
			Err(err).
			Str("driver", conf.DatabaseDriver).
			Msg("infra: database: failed to ping database")
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})

	return db, nil
}

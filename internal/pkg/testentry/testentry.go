// Package testentry builds the service graph on an in-memory SQLite database
// and an in-memory blob store for package tests.
package testentry

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	_ "modernc.org/sqlite"

	"github.com/highgarden7/dddorok-admin-backend/internal/app/appconfig"
	"github.com/highgarden7/dddorok-admin-backend/internal/app/appcontext"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/blobstore"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/mutex"
	"github.com/highgarden7/dddorok-admin-backend/internal/repo"
	"github.com/highgarden7/dddorok-admin-backend/internal/repo/schema"
	"github.com/highgarden7/dddorok-admin-backend/internal/service"
)

const memoryDSN = "file::memory:?_pragma=foreign_keys(1)"

func Config() *appconfig.Config {
	return &appconfig.Config{
		ConfigSpec: appconfig.ConfigSpec{
			ServiceAddress:       "localhost:0",
			DatabaseDriver:       appconfig.DatabaseDriverSQLite,
			SQLiteDSN:            memoryDSN,
			BlobDriver:           appconfig.BlobDriverMemory,
			S3PublicBaseURL:      "https://cdn.test",
			SvgMaxBytes:          64 * 1024,
			CatalogCacheTTL:      time.Minute,
			ReclaimerGracePeriod: 72 * time.Hour,
			ReclaimerRunAt:       "02:00",
			ReclaimerTimezone:    "Asia/Seoul",
			ReclaimerTimeout:     time.Minute,
		},
		AppContext: appcontext.Declare(appcontext.EnvCLI),
	}
}

func sqliteDB(lc fx.Lifecycle) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite", memoryDSN)
	if err != nil {
		return nil, err
	}
	// every connection to :memory: is a database of its own
	sqldb.SetMaxOpenConns(1)
	sqldb.SetConnMaxLifetime(0)
	sqldb.SetConnMaxIdleTime(0)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return schema.CreateTables(ctx, db)
		},
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})
	return db, nil
}

type mutexResult struct {
	fx.Out

	Mutex mutex.Mutex `name:"reclaimer"`
}

// Options returns the test graph; extra options, e.g. fx.Decorate, are appended.
func Options(t testing.TB, extra ...fx.Option) []fx.Option {
	memory := blobstore.NewMemory("https://cdn.test")

	opts := []fx.Option{
		fx.NopLogger,
		fx.Supply(Config()),
		fx.Supply(memory),
		fx.Provide(
			sqliteDB,
			func() blobstore.Store { return memory },
			func() *redis.Client { return nil },
			func() mutexResult { return mutexResult{Mutex: mutex.NewLocal()} },
		),
		repo.Module(),
		service.Module(),
		fx.Invoke(func() {
			log.Logger = log.Logger.Output(zerolog.NewTestWriter(t))
		}),
	}
	return append(opts, extra...)
}

// Populate starts the test graph and fills targets; the graph stops with the test.
func Populate(t testing.TB, targets ...any) {
	PopulateWith(t, nil, targets...)
}

func PopulateWith(t testing.TB, extra []fx.Option, targets ...any) {
	opts := Options(t, extra...)
	opts = append(opts, fx.Populate(targets...))

	app := fxtest.New(t, opts...)
	app.RequireStart()
	t.Cleanup(app.RequireStop)
}

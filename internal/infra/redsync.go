package infra

import (
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredislib "github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/highgarden7/dddorok-admin-backend/internal/app/appconfig"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/mutex"
)

const reclaimerMutexName = "mutex:resource-reclaimer"

func RedSync(client *goredislib.Client) *redsync.Redsync {
	if client == nil {
		return nil
	}
	pool := goredis.NewPool(client)
	return redsync.New(pool)
}

type ReclaimerMutexResult struct {
	fx.Out

	Mutex mutex.Mutex `name:"reclaimer"`
}

// ReclaimerMutex guards resource sweeps across every instance sharing the
// Redis server, or within this process when there is none.
func ReclaimerMutex(conf *appconfig.Config, rs *redsync.Redsync) ReclaimerMutexResult {
	if rs == nil {
		return ReclaimerMutexResult{Mutex: mutex.NewLocal()}
	}
	return ReclaimerMutexResult{Mutex: mutex.NewDistributed(rs.NewMutex(
		reclaimerMutexName,
		redsync.WithExpiry(conf.ReclaimerTimeout+time.Minute),
		redsync.WithTries(2),
	))}
}

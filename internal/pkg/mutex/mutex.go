// Package mutex provides a non-blocking exclusive lock that is either local to
// the process or shared through Redis.
package mutex

import (
	"context"
	"sync"

	"github.com/go-redsync/redsync/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type Mutex interface {
	// TryLock reports whether the lock was acquired without waiting on a holder.
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
}

type Local struct {
	mu sync.Mutex
}

var _ Mutex = (*Local)(nil)

func NewLocal() *Local {
	return &Local{}
}

func (l *Local) TryLock(context.Context) (bool, error) {
	return l.mu.TryLock(), nil
}

func (l *Local) Unlock(context.Context) error {
	l.mu.Unlock()
	return nil
}

type Distributed struct {
	m *redsync.Mutex
}

var _ Mutex = (*Distributed)(nil)

func NewDistributed(m *redsync.Mutex) *Distributed {
	return &Distributed{m: m}
}

func (d *Distributed) TryLock(ctx context.Context) (bool, error) {
	err := d.m.LockContext(ctx)
	if err == nil {
		return true, nil
	}
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	// redsync reports a lock held elsewhere and an unreachable quorum alike
	log.Debug().
		Err(err).
		Str("evt.name", "mutex.lock.failed").
		Str("mutex", d.m.Name()).
		Msg("could not acquire distributed lock")
	return false, nil
}

func (d *Distributed) Unlock(ctx context.Context) error {
	ok, err := d.m.UnlockContext(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to release distributed lock")
	}
	if !ok {
		return errors.New("distributed lock expired before release")
	}
	return nil
}

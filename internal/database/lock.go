package database

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 100 * time.Millisecond

// WriterLock serializes bulk writers (imports, seeding) across processes
// sharing the same database file.
type WriterLock struct {
	lock *flock.Flock
}

func NewWriterLock(path string) *WriterLock {
	return &WriterLock{lock: flock.New(path)}
}

// Lock blocks until the lock is held or ctx is done.
func (l *WriterLock) Lock(ctx context.Context) error {
	ok, err := l.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire writer lock %s: %w", l.lock.Path(), err)
	}
	if !ok {
		return fmt.Errorf("acquire writer lock %s: not acquired", l.lock.Path())
	}
	return nil
}

func (l *WriterLock) Unlock() error {
	return l.lock.Unlock()
}

func (l *WriterLock) Path() string {
	return l.lock.Path()
}

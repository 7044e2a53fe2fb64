package backup

import (
	"context"
	"sync"
)

// directoryLocks serializes sessions targeting the same remote directory
// within this process. It does not coordinate across replicas.
type directoryLocks struct {
	mu    sync.Mutex
	locks map[string]*directoryLock
}

type directoryLock struct {
	sem  chan struct{}
	refs int
}

func newDirectoryLocks() *directoryLocks {
	return &directoryLocks{locks: make(map[string]*directoryLock)}
}

// Lock waits for the directory to be free or for ctx to be done
func (d *directoryLocks) Lock(ctx context.Context, dir string) (func(), error) {
	d.mu.Lock()
	lock, ok := d.locks[dir]
	if !ok {
		lock = &directoryLock{sem: make(chan struct{}, 1)}
		d.locks[dir] = lock
	}
	lock.refs++
	d.mu.Unlock()

	select {
	case lock.sem <- struct{}{}:
		return func() {
			<-lock.sem
			d.release(dir, lock)
		}, nil
	case <-ctx.Done():
		d.release(dir, lock)
		return nil, ctx.Err()
	}
}

func (d *directoryLocks) release(dir string, lock *directoryLock) {
	d.mu.Lock()
	defer d.mu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(d.locks, dir)
	}
}

package repository

import (
	"context"
	"sync"
)

type keyedLockEntry struct {
	ch   chan struct{}
	refs int
}

// keyedLocker hands out one mutex per key. Waiting honours ctx cancellation
// and entries are dropped once nobody holds or waits on them.
type keyedLocker struct {
	mu    sync.Mutex
	locks map[string]*keyedLockEntry
}

func newKeyedLocker() *keyedLocker {
	return &keyedLocker{locks: make(map[string]*keyedLockEntry)}
}

func (l *keyedLocker) lock(ctx context.Context, key string) error {
	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &keyedLockEntry{ch: make(chan struct{}, 1)}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.release(key, entry)
		return ctx.Err()
	}
}

func (l *keyedLocker) unlock(key string) {
	l.mu.Lock()
	entry, ok := l.locks[key]
	l.mu.Unlock()
	if !ok {
		return
	}

	<-entry.ch
	l.release(key, entry)
}

func (l *keyedLocker) release(key string, entry *keyedLockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, key)
	}
}

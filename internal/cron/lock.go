package cron

import (
	"context"
	"sync"
)

// Lock coordinates exclusive cron runs.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// LocalLock guards against overlapping cycles within one process. The
// worker runs as a single instance, so no cross-process coordination is
// needed.
type LocalLock struct {
	mu sync.Mutex
}

// NewLocalLock constructs an in-process lock.
func NewLocalLock() *LocalLock {
	return &LocalLock{}
}

// Acquire returns false when a cycle is already running.
func (l *LocalLock) Acquire(ctx context.Context) (bool, error) {
	return l.mu.TryLock(), nil
}

// Release frees the lock.
func (l *LocalLock) Release(ctx context.Context) error {
	l.mu.Unlock()
	return nil
}

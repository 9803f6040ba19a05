package cron

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeJob struct {
	name string
	runs int
	err  error
}

func (f *fakeJob) Name() string                  { return f.name }
func (f *fakeJob) Run(ctx context.Context) error { f.runs++; return f.err }

type fakeLock struct {
	held     bool
	acquires int
	releases int
}

func (f *fakeLock) Acquire(ctx context.Context) (bool, error) {
	f.acquires++
	if f.held {
		return false, nil
	}
	f.held = true
	return true, nil
}

func (f *fakeLock) Release(ctx context.Context) error {
	f.releases++
	f.held = false
	return nil
}

func TestRegistrySkipsNilJobs(t *testing.T) {
	registry := NewRegistry(nil, &fakeJob{name: "a"})
	registry.Register(nil)
	registry.Register(&fakeJob{name: "b"})
	require.Len(t, registry.Jobs(), 2)
}

func TestRunCycleRunsEveryJob(t *testing.T) {
	jobA := &fakeJob{name: "a"}
	jobB := &fakeJob{name: "b", err: context.DeadlineExceeded}
	lock := &fakeLock{}
	svc, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(jobA, jobB),
		Lock:     lock,
	})
	require.NoError(t, err)

	require.NoError(t, svc.runCycle(context.Background()))
	// A failing job does not stop the cycle.
	require.Equal(t, 1, jobA.runs)
	require.Equal(t, 1, jobB.runs)
	require.Equal(t, 1, lock.releases)
}

func TestRunCycleSkipsWhenLocked(t *testing.T) {
	job := &fakeJob{name: "a"}
	lock := &fakeLock{held: true}
	svc, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(job),
		Lock:     lock,
	})
	require.NoError(t, err)

	require.NoError(t, svc.runCycle(context.Background()))
	require.Zero(t, job.runs)
	require.Zero(t, lock.releases)
}

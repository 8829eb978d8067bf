package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// TEST SUITE: WORKER POOL
// ============================================================================

func TestPool_RunsEveryJob(t *testing.T) {
	const jobs = 100
	pool := NewPool(4, jobs)

	var executed atomic.Int64
	for i := 0; i < jobs; i++ {
		pool.Submit(func(ctx context.Context) error {
			executed.Add(1)
			return nil
		})
	}
	pool.Close()

	err := pool.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(jobs), executed.Load())
}

func TestPool_ZeroJobs(t *testing.T) {
	pool := NewPool(2, 0)
	pool.Close()

	assert.NoError(t, pool.Run(context.Background()))
}

func TestPool_RecoverFromPanic(t *testing.T) {
	pool := NewPool(2, 2)

	var executed atomic.Int64
	pool.Submit(func(ctx context.Context) error {
		panic("boom")
	})
	pool.Submit(func(ctx context.Context) error {
		executed.Add(1)
		return nil
	})
	pool.Close()

	err := pool.Run(context.Background())

	assert.NoError(t, err, "a panicking job must not take the pool down")
	assert.Equal(t, int64(1), executed.Load())
}

func TestPool_CancellationStopsWorkers(t *testing.T) {
	pool := NewPool(1, 1)
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	pool.Submit(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})

	go func() {
		<-started
		cancel()
	}()

	done := make(chan error, 1)
	go func() { done <- pool.Run(ctx) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("pool did not stop after cancellation")
	}
}

func TestNewPool_ClampsWorkerCount(t *testing.T) {
	pool := NewPool(0, 1)

	assert.Equal(t, 1, pool.numWorkers)
}

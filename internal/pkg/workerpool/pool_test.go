package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsSubmittedJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := NewWorkerPool(ctx, 2, 16)

	var ran atomic.Int32
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		pool.Submit(func(ctx context.Context) {
			if ran.Add(1) == 5 {
				close(done)
			}
		})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("jobs did not run")
	}
	assert.Equal(t, int32(5), ran.Load())
}

func TestPool_DropsWhenQueueFull(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// One worker blocked on a job and a single-slot queue already occupied:
	// the third submit has nowhere to go.
	pool := NewWorkerPool(ctx, 1, 1)

	block := make(chan struct{})
	started := make(chan struct{})
	pool.Submit(func(ctx context.Context) {
		close(started)
		<-block
	})
	<-started

	var ran atomic.Int32
	queued := make(chan struct{})
	pool.Submit(func(ctx context.Context) { // fills the queue
		ran.Add(1)
		close(queued)
	})
	pool.Submit(func(ctx context.Context) { ran.Add(1) }) // dropped

	close(block)
	select {
	case <-queued:
	case <-time.After(2 * time.Second):
		t.Fatal("queued job did not run")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
	defer shutdownCancel()
	pool.Shutdown(shutdownCtx)

	assert.Equal(t, int32(1), ran.Load())
}

func TestShutdown_WaitsForQueuedJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// One worker and several queued jobs: Shutdown must wait for the whole
	// backlog, not just the job a worker already picked up.
	pool := NewWorkerPool(ctx, 1, 16)

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		pool.Submit(func(ctx context.Context) {
			time.Sleep(10 * time.Millisecond)
			ran.Add(1)
		})
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()
	pool.Shutdown(shutdownCtx)

	assert.Equal(t, int32(5), ran.Load())
}

func TestWithRetry_StopsAfterFirstSuccess(t *testing.T) {
	var attempts int
	job := WithRetry(3, time.Millisecond, func() error {
		attempts++
		if attempts < 2 {
			return errors.New("transient")
		}
		return nil
	})

	job(context.Background())
	assert.Equal(t, 2, attempts)
}

func TestWithRetry_ExhaustsBudget(t *testing.T) {
	var attempts int
	job := WithRetry(3, time.Millisecond, func() error {
		attempts++
		return errors.New("permanent")
	})

	job(context.Background())
	assert.Equal(t, 3, attempts)
}

func TestWithRetry_HonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var attempts int
	job := WithRetry(3, time.Millisecond, func() error {
		attempts++
		return errors.New("transient")
	})

	job(ctx)
	require.Zero(t, attempts)
}

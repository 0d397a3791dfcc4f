package workerpool

import (
	"context"
	"log"
	"sync"
	"time"
)

// Job is a unit of background work, typically a visit-event write.
type Job func(ctx context.Context)

// WorkerPool runs jobs on a fixed set of workers with a bounded queue. When
// the queue is full new jobs are dropped rather than blocking the caller:
// losing an analytics event is preferable to stalling a respondent.
type WorkerPool struct {
	queue chan Job
	wg    sync.WaitGroup
}

func NewWorkerPool(ctx context.Context, workerCount int, queueSize int) *WorkerPool {
	pool := &WorkerPool{
		queue: make(chan Job, queueSize),
	}

	for i := 0; i < workerCount; i++ {
		go pool.worker(ctx)
	}

	return pool
}

// Workers drain the queue until it is closed; a cancelled context is the
// jobs' concern, so queued work still runs (and can bail out fast) rather
// than being stranded with its waitgroup slot held.
func (p *WorkerPool) worker(ctx context.Context) {
	for job := range p.queue {
		job(ctx)
		p.wg.Done()
	}
}

// Submit enqueues a job, dropping it when the queue is full. Pending work is
// counted here, not at dequeue, so Shutdown waits for queued jobs too.
func (p *WorkerPool) Submit(job Job) {
	p.wg.Add(1)
	select {
	case p.queue <- job:
	default:
		p.wg.Done()
		log.Println("worker pool queue full, job dropped")
	}
}

// Shutdown closes the queue and waits for in-flight jobs, up to ctx deadline.
func (p *WorkerPool) Shutdown(ctx context.Context) {
	close(p.queue)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		log.Println("worker pool shutdown timed out")
	case <-done:
	}
}

// WithRetry wraps a fallible job with a fixed retry budget and delay. Used
// for event-recorder writes where a transient store error should not lose
// the event outright.
func WithRetry(retries int, delay time.Duration, job func() error) Job {
	return func(ctx context.Context) {
		var err error
		for i := 0; i < retries; i++ {
			if ctx.Err() != nil {
				return
			}
			if err = job(); err == nil {
				return
			}
			if i < retries-1 {
				time.Sleep(delay)
			}
		}
		log.Printf("job failed after %d attempts: %v", retries, err)
	}
}

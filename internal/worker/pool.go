// Package worker provides a bounded pool for data-parallel map steps of the
// pipeline. Jobs are independent per-record computations, so no ordering or
// shared mutable state is required beyond what callers capture in closures.
package worker

import (
	"context"
	"log/slog"
	"sync"
)

type Job func(ctx context.Context) error

type Pool struct {
	numWorkers int
	jobChan    chan Job
}

func NewPool(numWorkers, queueSize int) *Pool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Pool{
		numWorkers: numWorkers,
		jobChan:    make(chan Job, queueSize),
	}
}

func (p *Pool) Submit(job Job) {
	p.jobChan <- job
}

// Close signals that no more jobs will be submitted.
func (p *Pool) Close() {
	close(p.jobChan)
}

// Run starts the workers and blocks until the job channel is drained or the
// context is cancelled. Per-job errors are the caller's concern (captured in
// the job closures); Run only reports cancellation.
func (p *Pool) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	for i := 0; i < p.numWorkers; i++ {
		wg.Add(1)
		go p.worker(ctx, &wg, i+1)
	}

	wg.Wait()
	return ctx.Err()
}

func (p *Pool) worker(ctx context.Context, wg *sync.WaitGroup, id int) {
	defer wg.Done()

	for {
		select {
		case job, ok := <-p.jobChan:
			if !ok {
				return
			}
			p.safeExecution(ctx, job, id)
		case <-ctx.Done():
			// Exit immediately, even if the job channel is not closed.
			return
		}
	}
}

func (p *Pool) safeExecution(ctx context.Context, job Job, workerID int) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("worker recovered from panic", "worker", workerID, "panic", r)
		}
	}()

	if err := job(ctx); err != nil {
		slog.Debug("job returned error", "worker", workerID, "error", err)
	}
}

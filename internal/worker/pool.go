// Package worker runs independent jobs on a fixed number of goroutines.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work whose result belongs at position Index
type Job[R any] struct {
	Index int
	Run   func(ctx context.Context) (R, error)
}

// Result is the outcome of one job
type Result[R any] struct {
	Index int
	Value R
	Err   error
}

// Pool manages a pool of workers that execute jobs concurrently
type Pool[R any] struct {
	workers    int
	jobQueue   chan Job[R]
	results    chan Result[R]
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// NewPool creates a new worker pool with the specified number of workers.
// Cancelling ctx, or calling Cancel, stops workers after their current job.
func NewPool[R any](ctx context.Context, workers int) *Pool[R] {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool[R]{
		workers:    workers,
		jobQueue:   make(chan Job[R], workers*2),
		results:    make(chan Result[R], workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the worker pool
func (p *Pool[R]) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool[R]) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			value, err := job.Run(p.ctx)
			select {
			case p.results <- Result[R]{Index: job.Index, Value: value, Err: err}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. It returns false once the pool is cancelled.
func (p *Pool[R]) Submit(job Job[R]) bool {
	if p.ctx.Err() != nil {
		return false
	}

	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- job:
		return true
	}
}

// Close signals that no more jobs will be submitted. The results channel is
// closed once every worker has exited.
func (p *Pool[R]) Close() {
	p.closeOnce.Do(func() {
		close(p.jobQueue)
		go func() {
			p.wg.Wait()
			close(p.results)
		}()
	})
}

// Results streams job results in completion order
func (p *Pool[R]) Results() <-chan Result[R] {
	return p.results
}

// Cancel stops the pool; queued jobs that have not started are dropped
func (p *Pool[R]) Cancel() {
	p.cancelFunc()
}

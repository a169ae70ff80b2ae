package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

type queued struct {
	index int
	job   Job
}

type done struct {
	index  int
	result Result
}

// Pool runs jobs on a fixed number of workers and returns results in submission order
type Pool struct {
	workers    int
	jobQueue   chan queued
	results    chan done
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
	collected  chan struct{}

	mu        sync.Mutex
	submitted int
	slots     []Result
}

// NewPool creates a new worker pool bound to ctx. Non-positive worker counts mean one worker.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan queued, workers*2),
		results:    make(chan done, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
		collected:  make(chan struct{}),
	}
}

// Start starts the workers and the result collector. It must be called before Submit.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	go p.collect()
}

// collect drains results as they arrive so workers never stall on a full channel
func (p *Pool) collect() {
	defer close(p.collected)
	for d := range p.results {
		p.mu.Lock()
		for len(p.slots) <= d.index {
			p.slots = append(p.slots, nil)
		}
		p.slots[d.index] = d.result
		p.mu.Unlock()
	}
}

// worker executes queued jobs until the queue closes or the pool is cancelled
func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case q, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := q.job.Execute(p.ctx)
			select {
			case p.results <- done{index: q.index, result: result}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. It returns false when the pool was cancelled first.
// Submit must not be called after Wait.
func (p *Pool) Submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}

	p.mu.Lock()
	index := p.submitted
	p.submitted++
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- queued{index: index, job: job}:
		return true
	}
}

// Wait waits for all queued jobs and returns one slot per submitted job in
// submission order. Jobs that never ran because the pool was cancelled leave
// a nil slot.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	p.wg.Wait()
	p.closeResults()
	<-p.collected
	p.cancelFunc()

	p.mu.Lock()
	defer p.mu.Unlock()
	results := make([]Result, p.submitted)
	copy(results, p.slots)
	return results
}

// Shutdown cancels outstanding work and stops the workers
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}

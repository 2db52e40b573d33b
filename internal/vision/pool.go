package vision

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool runs inference jobs on a fixed set of workers fed by a bounded queue.
type Pool struct {
	logger *slog.Logger
	jobs   chan func()
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	workers   int
	completed atomic.Uint64
	rejected  atomic.Uint64
	inFlight  atomic.Int64
}

type PoolStats struct {
	Workers   int    `json:"workers"`
	Queued    int    `json:"queued"`
	Capacity  int    `json:"capacity"`
	InFlight  int64  `json:"in_flight"`
	Completed uint64 `json:"completed"`
	Rejected  uint64 `json:"rejected"`
}

func NewPool(workers, queue int, logger *slog.Logger) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if queue < 0 {
		queue = 0
	}

	p := &Pool{
		logger:  logger.With("component", "pool"),
		jobs:    make(chan func(), queue),
		workers: workers,
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}

	p.logger.Info("inference pool started", "workers", workers, "queue", queue)
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		p.run(job)
	}
}

func (p *Pool) run(job func()) {
	p.inFlight.Add(1)
	defer func() {
		p.inFlight.Add(-1)
		p.completed.Add(1)
		if r := recover(); r != nil {
			p.logger.Error("inference job panicked", "panic", r)
		}
	}()
	job()
}

// Submit enqueues job without blocking. It returns ErrPoolBusy when the queue
// is full and every worker is busy.
func (p *Pool) Submit(job func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.jobs <- job:
		return nil
	default:
		p.rejected.Add(1)
		return ErrPoolBusy
	}
}

// Do enqueues fn, waiting for queue space, and returns its result once a worker
// has run it. Once queued, Do waits for the job even if ctx ends, so fn never
// outlives the call. A job whose ctx ended while it was queued is skipped.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	job := func() {
		if err := ctx.Err(); err != nil {
			done <- err
			return
		}
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("inference job panicked", "panic", r)
				done <- fmt.Errorf("%w: %v", ErrJobPanicked, r)
			}
		}()
		done <- fn()
	}

	if err := p.enqueue(ctx, job); err != nil {
		return err
	}
	return <-done
}

func (p *Pool) enqueue(ctx context.Context, job func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Workers:   p.workers,
		Queued:    len(p.jobs),
		Capacity:  cap(p.jobs),
		InFlight:  p.inFlight.Load(),
		Completed: p.completed.Load(),
		Rejected:  p.rejected.Load(),
	}
}

// Close stops accepting jobs and waits for queued ones to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("inference pool stopped", "completed", p.completed.Load())
}

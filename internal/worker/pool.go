package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/Vovarama1992/kine-assistant/pkg/logging"
)

var (
	// ErrPoolFull means the queue is at capacity; the caller should shed the work.
	ErrPoolFull = errors.New("worker: pool queue full")
	// ErrPoolStopped means Stop was called.
	ErrPoolStopped = errors.New("worker: pool stopped")
)

// Job is one unit of work. The context is cancelled when the pool stops.
type Job func(ctx context.Context)

// Pool runs jobs on a fixed number of goroutines fed by a bounded queue.
type Pool struct {
	jobs    chan Job
	workers int
	logger  *logging.Logger

	mu      sync.RWMutex
	stopped bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPool(workers, queueSize int, logger *logging.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Pool{
		jobs:    make(chan Job, queueSize),
		workers: workers,
		logger:  logger,
	}
}

// Start launches the workers. Jobs keep running until Stop; ctx only seeds
// the values jobs receive.
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(context.WithoutCancel(ctx))
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(i)
	}
	p.logger.Info("worker pool started", "workers", p.workers, "queue_size", cap(p.jobs))
}

// Submit queues job without blocking.
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case p.jobs <- job:
		return nil
	default:
		return ErrPoolFull
	}
}

// Stop refuses new jobs, drains the queue and waits for the workers. If ctx
// expires first, running jobs see their context cancelled.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancelJobs()
		return nil
	case <-ctx.Done():
		p.cancelJobs()
		<-done
		return ctx.Err()
	}
}

func (p *Pool) cancelJobs() {
	if p.cancel != nil {
		p.cancel()
	}
}

func (p *Pool) run(id int) {
	defer p.wg.Done()
	for job := range p.jobs {
		p.safeRun(id, job)
	}
}

func (p *Pool) safeRun(id int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("worker job panicked", "worker", id, "panic", r)
		}
	}()
	job(p.ctx)
}

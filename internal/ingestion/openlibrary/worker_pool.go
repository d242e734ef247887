package openlibrary

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Task is one unit of import work.
type Task func(ctx context.Context) error

// WorkerPool runs import tasks over a fixed set of goroutines. Submit
// must not be called after Wait.
type WorkerPool struct {
	workers   int
	tasks     chan Task
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	failed    atomic.Int64
	log       zerolog.Logger
}

func NewWorkerPool(ctx context.Context, workers int, log zerolog.Logger) *WorkerPool {
	poolCtx, cancel := context.WithCancel(ctx)
	return &WorkerPool{
		workers: workers,
		tasks:   make(chan Task, workers*2),
		ctx:     poolCtx,
		cancel:  cancel,
		log:     log,
	}
}

// Start launches the worker goroutines.
func (p *WorkerPool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.log.Debug().Int("workers", p.workers).Msg("worker pool started")
}

// Submit queues a task. Tasks submitted during shutdown are dropped.
func (p *WorkerPool) Submit(task Task) {
	select {
	case p.tasks <- task:
	case <-p.ctx.Done():
		p.log.Debug().Msg("pool shutting down, task dropped")
	}
}

// Wait closes the queue, blocks until the workers drain it, and returns
// the number of failed tasks.
func (p *WorkerPool) Wait() int64 {
	p.closeOnce.Do(func() { close(p.tasks) })
	p.wg.Wait()
	return p.failed.Load()
}

// Shutdown cancels in-flight work and waits for the workers to stop.
func (p *WorkerPool) Shutdown() {
	p.cancel()
	p.Wait()
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	for task := range p.tasks {
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		if err := task(p.ctx); err != nil {
			p.failed.Add(1)
			p.log.Warn().Err(err).Int("worker", id).Msg("import task failed")
		}
	}
}

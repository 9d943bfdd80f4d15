// Package pool provides a bounded worker pool used to run many
// processes concurrently with backpressure.
package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// Common errors.
var (
	ErrPoolFull     = errors.New("worker pool is full")
	ErrPoolShutdown = errors.New("worker pool is shutdown")
)

// Task represents a unit of work for the pool. The pool's context is
// passed to Fn; a shutdown cancels it.
type Task struct {
	SubmittedAt time.Time
	Fn          func(ctx context.Context)
}

// Config configures the worker pool.
type Config struct {
	// Workers is the number of concurrent workers. Wine launches are
	// heavyweight, so this should track the host's capacity, not the
	// number of pending runs.
	Workers int

	// QueueSize is the size of the task queue.
	QueueSize int

	// Block makes Submit wait for queue space instead of rejecting with
	// ErrPoolFull.
	Block bool
}

// DefaultConfig returns default pool configuration.
func DefaultConfig() Config {
	return Config{
		Workers:   4,
		QueueSize: 64,
		Block:     true,
	}
}

// Stats contains pool statistics.
type Stats struct {
	ActiveWorkers  int32
	QueueLength    int
	QueueCapacity  int
	TotalSubmitted int64
	TotalCompleted int64
	TotalRejected  int64
	TotalPanicked  int64
}

// Pool runs submitted tasks on a fixed set of workers.
type Pool struct {
	taskQueue  chan Task
	shutdownCh chan struct{}
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	shutdown   int32

	activeWorkers  int32
	totalSubmitted int64
	totalCompleted int64
	totalRejected  int64
	totalPanicked  int64

	block bool
}

// New creates a worker pool and starts its workers.
func New(config Config) *Pool {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.QueueSize <= 0 {
		config.QueueSize = config.Workers * 4
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		taskQueue:  make(chan Task, config.QueueSize),
		shutdownCh: make(chan struct{}),
		cancel:     cancel,
		block:      config.Block,
	}

	for i := 0; i < config.Workers; i++ {
		p.wg.Add(1)
		go p.run(ctx)
	}
	return p
}

// Submit queues a task. With a blocking pool it waits for queue space
// or ctx cancellation; otherwise a full queue fails with ErrPoolFull.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	if atomic.LoadInt32(&p.shutdown) == 1 {
		return ErrPoolShutdown
	}

	task.SubmittedAt = time.Now()
	atomic.AddInt64(&p.totalSubmitted, 1)

	if !p.block {
		select {
		case p.taskQueue <- task:
			return nil
		default:
			atomic.AddInt64(&p.totalRejected, 1)
			return ErrPoolFull
		}
	}

	select {
	case p.taskQueue <- task:
		return nil
	case <-ctx.Done():
		atomic.AddInt64(&p.totalRejected, 1)
		return ctx.Err()
	case <-p.shutdownCh:
		return ErrPoolShutdown
	}
}

// SubmitFunc queues a bare function.
func (p *Pool) SubmitFunc(ctx context.Context, fn func(ctx context.Context)) error {
	return p.Submit(ctx, Task{Fn: fn})
}

// Stats returns a snapshot of pool statistics.
func (p *Pool) Stats() Stats {
	return Stats{
		ActiveWorkers:  atomic.LoadInt32(&p.activeWorkers),
		QueueLength:    len(p.taskQueue),
		QueueCapacity:  cap(p.taskQueue),
		TotalSubmitted: atomic.LoadInt64(&p.totalSubmitted),
		TotalCompleted: atomic.LoadInt64(&p.totalCompleted),
		TotalRejected:  atomic.LoadInt64(&p.totalRejected),
		TotalPanicked:  atomic.LoadInt64(&p.totalPanicked),
	}
}

// Shutdown stops accepting tasks, waits for queued tasks to drain, and
// returns when every worker has exited or ctx fires. After the wait is
// abandoned the remaining tasks see a canceled context.
func (p *Pool) Shutdown(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&p.shutdown, 0, 1) {
		return nil
	}

	close(p.shutdownCh)
	close(p.taskQueue)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		p.cancel()
		return ctx.Err()
	}
}

func (p *Pool) run(ctx context.Context) {
	defer p.wg.Done()

	for task := range p.taskQueue {
		atomic.AddInt32(&p.activeWorkers, 1)
		p.execute(ctx, task)
		atomic.AddInt32(&p.activeWorkers, -1)
	}
}

func (p *Pool) execute(ctx context.Context, task Task) {
	defer func() {
		// A panicking task must not take the worker down with it.
		if r := recover(); r != nil {
			atomic.AddInt64(&p.totalPanicked, 1)
		}
		atomic.AddInt64(&p.totalCompleted, 1)
	}()

	if task.Fn != nil {
		task.Fn(ctx)
	}
}

package workpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrClosed is returned when submitting to a closed pool.
var ErrClosed = errors.New("workpool: closed")

// DefaultCloseTimeout bounds how long Terminate waits for queued tasks.
const DefaultCloseTimeout = 10 * time.Second

// Task is a unit of work run by a pool worker.
type Task func()

// Pool runs submitted tasks on a fixed set of goroutines.
type Pool struct {
	workers  int
	tasks    chan Task
	g        errgroup.Group
	closed   atomic.Bool
	submitMu sync.RWMutex
	logger   *slog.Logger
}

// New creates a pool with the given number of workers.
// A non-positive count uses runtime.GOMAXPROCS(0). A nil logger discards output.
func New(workers int, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	p := &Pool{
		workers: workers,
		tasks:   make(chan Task, workers*2),
		logger:  logger,
	}
	for range workers {
		p.g.Go(p.worker)
	}
	return p
}

func (p *Pool) worker() error {
	for task := range p.tasks {
		p.run(task)
	}
	return nil
}

func (p *Pool) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("workpool task panicked", "panic", fmt.Sprint(r))
		}
	}()
	task()
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int { return p.workers }

// Closed reports whether Close has been called.
func (p *Pool) Closed() bool { return p.closed.Load() }

// Submit enqueues task, blocking while the queue is full.
// It returns ErrClosed once the pool is closed and the context error if ctx is
// done before the task is queued.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	p.submitMu.RLock()
	defer p.submitMu.RUnlock()

	if p.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks and waits up to timeout for queued tasks to
// finish. It is idempotent. A timeout is logged and otherwise ignored; the
// remaining workers exit once the queue drains.
func (p *Pool) Close(timeout time.Duration) {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}

	p.submitMu.Lock()
	close(p.tasks)
	p.submitMu.Unlock()

	done := make(chan struct{})
	go func() {
		_ = p.g.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		p.logger.Warn("workpool did not terminate in time", "timeout", timeout)
	}
}

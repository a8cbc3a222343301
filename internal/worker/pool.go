// Package worker isolates blocking database work from latency-sensitive
// callers on a small dedicated pool.
package worker

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultSize is the worker count used when the caller passes zero.
// Two workers keep one free for reads while a write is in flight.
const DefaultSize = 2

// queueDepth bounds the submit queue; Submit fails fast at capacity
// instead of blocking the caller
const queueDepth = 64

// ErrPoolClosed is returned when work is submitted after shutdown began
var ErrPoolClosed = errors.New("worker pool is shut down")

// ErrQueueFull is returned when the submit queue is at capacity
var ErrQueueFull = errors.New("worker queue is full")

// Task is a unit of work executed on the pool
type Task func() error

// Handle tracks one submitted task. Done is closed when the task
// finishes; Err reports the task's error after that.
type Handle struct {
	done chan struct{}
	err  error
}

// Done returns a channel closed when the task completes
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err blocks until the task completes and returns its error
func (h *Handle) Err() error {
	<-h.done
	return h.err
}

// Pool is a fixed-size worker pool. It is created once and reused for
// all database operations; the interactive layer submits fire-and-forget
// tasks and applies results back through the cache's mutators.
type Pool struct {
	tasks       chan *submission
	outstanding atomic.Int64
	wg          sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

type submission struct {
	task   Task
	handle *Handle
}

// NewPool creates and starts a pool with the given number of workers.
// size <= 0 falls back to DefaultSize.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = DefaultSize
	}

	p := &Pool{
		tasks: make(chan *submission, queueDepth),
	}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for sub := range p.tasks {
		sub.handle.err = sub.task()
		close(sub.handle.done)
		p.outstanding.Add(-1)
	}
}

// Submit enqueues a task and returns immediately with a handle.
// Returns ErrPoolClosed once shutdown has begun and ErrQueueFull when
// the queue is at capacity; it never blocks, so a backed-up queue can
// not wedge callers or shutdown.
func (p *Pool) Submit(task Task) (*Handle, error) {
	handle := &Handle{done: make(chan struct{})}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrPoolClosed
	}

	p.outstanding.Add(1)
	select {
	case p.tasks <- &submission{task: task, handle: handle}:
		return handle, nil
	default:
		p.outstanding.Add(-1)
		return nil, ErrQueueFull
	}
}

// SubmitWait enqueues a task and blocks the calling goroutine until it
// completes. Only call this from contexts already off the interactive
// path.
func (p *Pool) SubmitWait(task Task) error {
	handle, err := p.Submit(task)
	if err != nil {
		return err
	}
	return handle.Err()
}

// Outstanding reports the number of tasks accepted but not yet finished
func (p *Pool) Outstanding() int64 {
	return p.outstanding.Load()
}

// Shutdown stops accepting work, then polls the outstanding count until
// it drains or the timeout elapses. Undrained tasks are abandoned with a
// warning rather than blocking shutdown indefinitely.
func (p *Pool) Shutdown(timeout time.Duration) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	deadline := time.Now().Add(timeout)
	for p.outstanding.Load() > 0 {
		if time.Now().After(deadline) {
			slog.Warn("worker pool shutdown timed out, abandoning tasks",
				"outstanding", p.outstanding.Load(),
				"timeout", timeout)
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	p.wg.Wait()
}

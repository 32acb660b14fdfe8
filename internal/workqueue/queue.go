// Package workqueue runs units of work one at a time on a background goroutine so
// long operations do not block the caller, which polls status instead of receiving
// callbacks.
package workqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Func is one unit of work. It should return promptly once ctx is done.
type Func func(ctx context.Context) error

type unit struct {
	name string
	fn   Func
}

// Queue executes units sequentially in the order they were added. The first failing
// unit aborts the queue; later units are dropped.
type Queue struct {
	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group
	wake   chan struct{}

	mu          sync.Mutex
	items       []unit
	closed      bool
	running     bool
	status      string
	activeSince time.Time
	active      time.Duration
}

// New starts a queue whose units run under ctx.
func New(ctx context.Context) *Queue {
	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	q := &Queue{
		ctx:    gctx,
		cancel: cancel,
		group:  g,
		wake:   make(chan struct{}, 1),
	}
	g.Go(q.run)
	return q
}

// Add enqueues fn under name. Units added after Wait or Abort are ignored.
func (q *Queue) Add(name string, fn Func) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items, unit{name: name, fn: fn})
	q.mu.Unlock()
	q.signal()
}

// Abort cancels the running unit and drops queued ones.
func (q *Queue) Abort() {
	q.mu.Lock()
	q.items = nil
	q.closed = true
	q.mu.Unlock()
	q.cancel()
}

// Wait stops accepting units, waits until the queue drains and returns the first error.
// Cancellation is not reported as an error.
func (q *Queue) Wait() error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
	err := q.group.Wait()
	q.cancel()
	return err
}

// Status returns the last status reported by a unit, or "Idle".
func (q *Queue) Status() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.status == "" {
		return "Idle"
	}
	return q.status
}

// ActiveTime returns the total time spent running units.
func (q *Queue) ActiveTime() time.Duration {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		return q.active + time.Since(q.activeSince)
	}
	return q.active
}

// IsIdle reports whether no unit is running or queued.
func (q *Queue) IsIdle() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return !q.running && len(q.items) == 0
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) run() error {
	for {
		u, ok := q.next()
		if !ok {
			return nil
		}

		err := u.fn(withStatus(q.ctx, q))
		q.finish()

		if err != nil && !errors.Is(err, context.Canceled) {
			q.Abort()
			return fmt.Errorf("%s: %w", u.name, err)
		}
	}
}

// next blocks until a unit is available, the queue is closed and drained, or the
// queue context is done.
func (q *Queue) next() (unit, bool) {
	for {
		q.mu.Lock()
		if q.ctx.Err() == nil && len(q.items) > 0 {
			u := q.items[0]
			q.items = q.items[1:]
			q.running = true
			q.activeSince = time.Now()
			q.status = u.name
			q.mu.Unlock()
			return u, true
		}
		done := q.closed || q.ctx.Err() != nil
		q.mu.Unlock()
		if done {
			return unit{}, false
		}

		select {
		case <-q.wake:
		case <-q.ctx.Done():
		}
	}
}

func (q *Queue) finish() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.running = false
	q.active += time.Since(q.activeSince)
}

func (q *Queue) setStatus(msg string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.status = msg
}

type statusKey struct{}

func withStatus(ctx context.Context, q *Queue) context.Context {
	return context.WithValue(ctx, statusKey{}, q)
}

// SetStatus records a status message for the queue running ctx's unit.
// It is a no-op outside a queue.
func SetStatus(ctx context.Context, format string, args ...any) {
	if q, ok := ctx.Value(statusKey{}).(*Queue); ok {
		q.setStatus(fmt.Sprintf(format, args...))
	}
}

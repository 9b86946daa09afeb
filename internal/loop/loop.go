// Package loop provides the single-writer interaction loop that owns all display
// and scene state, together with periodic tasks scheduled onto it.
package loop

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ErrStopped is returned when work is handed to a loop that is no longer running.
var ErrStopped = errors.New("interaction loop stopped")

// Loop executes posted functions one at a time on a single goroutine.
// Posting never blocks, so completions from network goroutines and periodic
// ticks can always be marshalled back onto the loop.
type Loop struct {
	log     *slog.Logger
	mu      sync.Mutex
	pending []func()
	stopped bool
	wake    chan struct{}
	done    chan struct{}
	once    sync.Once
}

// New creates a loop. It does nothing until Run is called.
func New(log *slog.Logger) *Loop {
	return &Loop{
		log:  log,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Run drains the queue until ctx is canceled. Work still queued at that point is dropped.
func (l *Loop) Run(ctx context.Context) {
	defer l.stop()

	l.log.DebugContext(ctx, "Interaction loop started")

	for {
		select {
		case <-ctx.Done():
			l.log.DebugContext(ctx, "Interaction loop stopped")
			return
		case <-l.wake:
			for _, fn := range l.drain() {
				fn()
			}
		}
	}
}

// Post queues fn for execution on the loop. It reports false if the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.pending = append(l.pending, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}

	return true
}

// Do runs fn on the loop and waits for it to finish.
// It must not be called from the loop itself.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrStopped
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the loop has stopped.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) drain() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	batch := l.pending
	l.pending = nil

	return batch
}

func (l *Loop) stop() {
	l.once.Do(func() {
		l.mu.Lock()
		l.stopped = true
		l.pending = nil
		l.mu.Unlock()
		close(l.done)
	})
}

// Task is a periodic job scheduled onto a loop.
type Task struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// Every posts fn onto the loop once per period until the task is stopped or the loop exits.
// A tick is skipped while the previous one is still waiting to run, so a slow loop
// never accumulates a backlog of stale ticks.
func (l *Loop) Every(period time.Duration, fn func()) *Task {
	task := &Task{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go func() {
		defer close(task.done)

		ticker := time.NewTicker(period)
		defer ticker.Stop()

		var queued atomic.Bool
		for {
			select {
			case <-task.stop:
				return
			case <-l.done:
				return
			case <-ticker.C:
				if !queued.CompareAndSwap(false, true) {
					continue
				}
				posted := l.Post(func() {
					defer queued.Store(false)
					if task.stopped() {
						return
					}
					fn()
				})
				if !posted {
					return
				}
			}
		}
	}()

	return task
}

// Stop cancels the task. A tick already queued on the loop will not run fn.
// Stop is idempotent and safe to call from the loop.
func (t *Task) Stop() {
	t.once.Do(func() { close(t.stop) })
	<-t.done
}

func (t *Task) stopped() bool {
	select {
	case <-t.stop:
		return true
	default:
		return false
	}
}

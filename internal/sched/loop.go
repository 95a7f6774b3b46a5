// Package sched runs callbacks one at a time on a single goroutine.
//
// Device libraries such as SDL want every call made from the same OS
// thread, so the loop can pin itself with runtime.LockOSThread. Timers and
// other goroutines never touch loop-owned state directly; they hand a
// function to the loop instead.
package sched

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"
)

const queueSize = 64

// Loop serializes callbacks onto the goroutine that calls Run.
type Loop struct {
	jobs       chan func()
	done       chan struct{}
	lockThread bool
	// atExit is only touched from the loop goroutine.
	atExit []func()
}

// New returns a loop. With lockThread set, Run pins its goroutine to the
// current OS thread for its whole lifetime.
func New(lockThread bool) *Loop {
	return &Loop{
		jobs:       make(chan func(), queueSize),
		done:       make(chan struct{}),
		lockThread: lockThread,
	}
}

// Run executes queued callbacks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	if l.lockThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}
	defer close(l.done)
	defer func() {
		for i := len(l.atExit) - 1; i >= 0; i-- {
			l.atExit[i]()
		}
	}()

	for {
		// Shutdown wins over pending work.
		select {
		case <-ctx.Done():
			return
		default:
		}

		select {
		case <-ctx.Done():
			return
		case fn := <-l.jobs:
			fn()
		}
	}
}

// AtExit registers fn to run on the loop goroutine, still on its locked
// thread, when Run returns. Functions run in reverse order. Call it only
// from a callback running on the loop.
func (l *Loop) AtExit(fn func()) {
	l.atExit = append(l.atExit, fn)
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Post queues fn. It blocks while the queue is full and gives up silently
// once the loop has stopped.
func (l *Loop) Post(fn func()) {
	select {
	case l.jobs <- fn:
	case <-l.done:
	}
}

func (l *Loop) tryPost(fn func()) bool {
	select {
	case l.jobs <- fn:
		return true
	default:
		return false
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	job := func() {
		defer close(finished)
		fn()
	}
	select {
	case l.jobs <- job:
	case <-l.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ScheduleOnce runs fn on the loop after delay. The returned function
// cancels it; cancelling after fn ran is a no-op.
func (l *Loop) ScheduleOnce(delay time.Duration, fn func()) (cancel func()) {
	var cancelled atomic.Bool
	t := time.AfterFunc(delay, func() {
		l.Post(func() {
			if !cancelled.Load() {
				fn()
			}
		})
	})
	return func() {
		cancelled.Store(true)
		t.Stop()
	}
}

// SchedulePeriodic runs fn on the loop every period until stop is called
// or the loop exits. A tick that finds the previous one still queued is
// dropped, so a slow callback never builds a backlog.
func (l *Loop) SchedulePeriodic(period time.Duration, fn func()) (stop func()) {
	var pending atomic.Bool
	quit := make(chan struct{})
	var once atomic.Bool

	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-l.done:
				return
			case <-ticker.C:
				if !pending.CompareAndSwap(false, true) {
					continue
				}
				ok := l.tryPost(func() {
					pending.Store(false)
					select {
					case <-quit:
					default:
						fn()
					}
				})
				if !ok {
					pending.Store(false)
				}
			}
		}
	}()

	return func() {
		if once.CompareAndSwap(false, true) {
			close(quit)
		}
	}
}

package sched

import (
	"context"
	"testing"
	"time"
)

func startLoop(t *testing.T) (*Loop, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	l := New(false)
	go l.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-l.Done()
	})
	return l, cancel
}

func TestDoRunsOnLoop(t *testing.T) {
	l, _ := startLoop(t)

	n := 0
	for i := 0; i < 10; i++ {
		if err := l.Do(context.Background(), func() { n++ }); err != nil {
			t.Fatalf("Do failed: %v", err)
		}
	}
	if n != 10 {
		t.Fatalf("Expected 10 runs, got %d", n)
	}
}

func TestPostKeepsOrder(t *testing.T) {
	l, _ := startLoop(t)

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		l.Post(func() { order = append(order, i) })
	}
	var got []int
	if err := l.Do(context.Background(), func() { got = append(got, order...) }); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("Out of order: %v", got)
		}
	}
}

func TestScheduleOnceFires(t *testing.T) {
	l, _ := startLoop(t)

	fired := make(chan struct{})
	l.ScheduleOnce(10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("One-shot never fired")
	}
}

func TestScheduleOnceCancel(t *testing.T) {
	l, _ := startLoop(t)

	fired := make(chan struct{}, 1)
	cancel := l.ScheduleOnce(20*time.Millisecond, func() { fired <- struct{}{} })
	cancel()

	select {
	case <-fired:
		t.Fatal("Cancelled one-shot fired")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSchedulePeriodicStops(t *testing.T) {
	l, _ := startLoop(t)

	ticks := make(chan struct{}, 100)
	stop := l.SchedulePeriodic(5*time.Millisecond, func() { ticks <- struct{}{} })

	for i := 0; i < 3; i++ {
		select {
		case <-ticks:
		case <-time.After(2 * time.Second):
			t.Fatalf("Only saw %d ticks", i)
		}
	}
	stop()
	stop()

	// Let any tick that was already queued drain, then expect silence.
	if err := l.Do(context.Background(), func() {}); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	for len(ticks) > 0 {
		<-ticks
	}
	select {
	case <-ticks:
		t.Fatal("Tick after stop")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDoAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := New(false)
	go l.Run(ctx)
	cancel()
	<-l.Done()

	if err := l.Do(context.Background(), func() {}); err == nil {
		t.Fatal("Expected an error from Do on a stopped loop")
	}
	// Must not block.
	l.Post(func() {})
}

func TestAtExitRunsOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := New(false)
	go l.Run(ctx)

	var order []int
	if err := l.Do(context.Background(), func() {
		l.AtExit(func() { order = append(order, 1) })
		l.AtExit(func() { order = append(order, 2) })
	}); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	cancel()
	<-l.Done()

	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("AtExit order %v, expected [2 1]", order)
	}
}

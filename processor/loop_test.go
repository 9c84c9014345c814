package processor

import (
	"context"
	"slices"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) time.Time {
	c.t = c.t.Add(d)
	return c.t
}

func newTestLoop() (*Loop, *fakeClock) {
	clk := &fakeClock{t: time.Unix(1000, 0)}
	l := NewLoop()
	l.SetClock(clk.now)
	return l, clk
}

func TestLoopOrder(t *testing.T) {
	l, clk := newTestLoop()

	var order []string
	mk := func(name string) *Task {
		return NewTask(func() { order = append(order, name) })
	}

	l.PostDelayed(mk("late"), 20*time.Millisecond)
	l.PostDelayed(mk("early"), 10*time.Millisecond)
	l.Post(mk("now-a"))
	l.Post(mk("now-b"))

	if n := l.RunDue(clk.t); n != 2 {
		t.Fatalf("ran %d tasks at t0, want 2", n)
	}

	if n := l.RunDue(clk.advance(15 * time.Millisecond)); n != 1 {
		t.Fatalf("ran %d tasks at t15, want 1", n)
	}

	l.RunDue(clk.advance(15 * time.Millisecond))

	want := []string{"now-a", "now-b", "early", "late"}
	if !slices.Equal(order, want) {
		t.Fatalf("order %v, want %v", order, want)
	}

	if l.Len() != 0 {
		t.Fatalf("%d tasks left", l.Len())
	}
}

func TestLoopRemove(t *testing.T) {
	l, clk := newTestLoop()

	ran := false
	task := NewTask(func() { ran = true })

	l.PostDelayed(task, time.Millisecond)

	if !l.Pending(task) {
		t.Fatal("task not pending after post")
	}

	if !l.Remove(task) {
		t.Fatal("Remove reported task not queued")
	}

	if l.Remove(task) {
		t.Fatal("second Remove reported task queued")
	}

	l.RunDue(clk.advance(time.Second))

	if ran {
		t.Fatal("removed task ran")
	}
}

func TestLoopRepostMoves(t *testing.T) {
	l, clk := newTestLoop()

	count := 0
	task := NewTask(func() { count++ })

	l.PostDelayed(task, time.Millisecond)
	l.PostDelayed(task, 5*time.Millisecond)

	if l.Len() != 1 {
		t.Fatalf("queue holds %d tasks, want 1", l.Len())
	}

	l.RunDue(clk.advance(2 * time.Millisecond))
	if count != 0 {
		t.Fatal("task ran at its old time")
	}

	l.RunDue(clk.advance(5 * time.Millisecond))
	if count != 1 {
		t.Fatalf("task ran %d times, want 1", count)
	}
}

func TestLoopRun(t *testing.T) {
	l := NewLoop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	hits := 0

	var task *Task
	task = NewTask(func() {
		hits++
		if hits == 3 {
			close(done)
			return
		}
		l.PostDelayed(task, time.Millisecond)
	})

	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()

	l.Post(task)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not run the task three times")
	}

	cancel()

	select {
	case err := <-errCh:
		if err != context.Canceled {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

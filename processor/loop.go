package processor

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// Task is a unit of work run by a Loop. A task sits in a loop's queue at
// most once.
type Task struct {
	fn    func()
	when  time.Time
	seq   uint64
	index int // position in the queue, -1 when not queued
}

// NewTask wraps fn in a task.
func NewTask(fn func()) *Task {
	return &Task{fn: fn, index: -1}
}

// Loop runs tasks one at a time on the goroutine that calls Run (or RunDue).
//
// Posting and removing are safe from any goroutine. Everything the tasks
// touch belongs to the loop goroutine, so they need no locking of their own.
type Loop struct {
	mu    sync.Mutex
	queue taskQueue
	seq   uint64

	wake chan struct{}
	now  func() time.Time
}

// NewLoop returns an empty loop that reads time from the wall clock.
func NewLoop() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		now:  time.Now,
	}
}

// SetClock replaces the loop clock. Used by tests to drive RunDue.
func (l *Loop) SetClock(now func() time.Time) {
	l.mu.Lock()
	l.now = now
	l.mu.Unlock()
}

// Post queues t to run as soon as possible.
func (l *Loop) Post(t *Task) {
	l.PostDelayed(t, 0)
}

// PostDelayed queues t to run after delay. A task that is already queued is
// moved to the new time rather than queued twice.
func (l *Loop) PostDelayed(t *Task, delay time.Duration) {
	if delay < 0 {
		delay = 0
	}

	l.mu.Lock()

	t.when = l.now().Add(delay)
	l.seq++
	t.seq = l.seq

	if t.index >= 0 {
		heap.Fix(&l.queue, t.index)
	} else {
		heap.Push(&l.queue, t)
	}

	l.mu.Unlock()

	l.kick()
}

// Remove takes t out of the queue. Once Remove returns, t will not run
// unless it is posted again. Reports whether t was queued.
func (l *Loop) Remove(t *Task) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t.index < 0 {
		return false
	}

	heap.Remove(&l.queue, t.index)
	return true
}

// Pending reports whether t is waiting in the queue.
func (l *Loop) Pending(t *Task) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return t.index >= 0
}

// Len returns the number of queued tasks.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.queue.Len()
}

// RunDue runs every task due at or before now, in time order, and returns
// how many ran. Tasks posted while it runs are picked up if they are due.
func (l *Loop) RunDue(now time.Time) int {
	var ran int

	for {
		l.mu.Lock()
		if l.queue.Len() == 0 || l.queue[0].when.After(now) {
			l.mu.Unlock()
			return ran
		}

		t := heap.Pop(&l.queue).(*Task)
		l.mu.Unlock()

		t.fn()
		ran++
	}
}

// Run processes tasks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		l.RunDue(l.clock())

		if wait, ok := l.next(); ok {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}

			timer.Reset(wait)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-l.wake:
			case <-timer.C:
			}

			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) clock() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.now()
}

// next returns the time until the head task is due.
func (l *Loop) next() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.queue.Len() == 0 {
		return 0, false
	}

	return l.queue[0].when.Sub(l.now()), true
}

func (l *Loop) kick() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// taskQueue orders tasks by due time, then by post order.
type taskQueue []*Task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].when.Equal(q[j].when) {
		return q[i].seq < q[j].seq
	}
	return q[i].when.Before(q[j].when)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*Task)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}

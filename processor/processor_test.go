package processor

import (
	"slices"
	"testing"
	"time"
)

type testSource struct {
	values []int
	pos    int

	starts int
	stops  int
	reads  int
}

func (ts *testSource) Start() { ts.starts++ }
func (ts *testSource) Stop()  { ts.stops++ }
func (ts *testSource) Read()  { ts.reads++ }

func (ts *testSource) MeanAmplitude() int {
	if ts.pos >= len(ts.values) {
		return 0
	}
	v := ts.values[ts.pos]
	ts.pos++
	return v
}

const testInterval = 30 * time.Millisecond

func newTestDriver(points int, src Source) (*Driver, *Loop, *fakeClock, *int) {
	l, clk := newTestLoop()
	redraws := new(int)

	d := New(Config{
		Interval: testInterval,
		Points:   points,
		Loop:     l,
		Source:   src,
		Redraw:   func() { *redraws++ },
	})

	return d, l, clk, redraws
}

func TestStopBeforeStart(t *testing.T) {
	src := &testSource{}
	d, l, _, _ := newTestDriver(4, src)

	d.Stop()

	if d.State() != Stopped {
		t.Fatalf("state %v, want stopped", d.State())
	}

	if src.stops != 0 {
		t.Fatal("source stopped while never started")
	}

	if l.Len() != 0 {
		t.Fatal("stop queued work")
	}
}

func TestDoubleStart(t *testing.T) {
	src := &testSource{}
	d, l, clk, _ := newTestDriver(4, src)

	d.Start()
	d.Start()

	if d.State() != Running {
		t.Fatalf("state %v, want running", d.State())
	}

	if src.starts != 1 {
		t.Fatalf("source started %d times", src.starts)
	}

	if l.Len() != 1 {
		t.Fatalf("%d ticks scheduled, want 1", l.Len())
	}

	// one interval window holds exactly one tick
	l.RunDue(clk.advance(testInterval))

	if src.reads != 1 {
		t.Fatalf("%d reads in one interval, want 1", src.reads)
	}

	if l.Len() != 1 {
		t.Fatalf("%d ticks scheduled after tick, want 1", l.Len())
	}
}

func TestTicksFillBuffer(t *testing.T) {
	src := &testSource{values: []int{10, 20, 5, 40, 8}}
	d, l, clk, redraws := newTestDriver(4, src)
	d.Normalizer().SetHeight(100)

	d.Start()

	for i := 0; i < 4; i++ {
		l.RunDue(clk.advance(testInterval))
	}

	if d.Buffer().Cursor() != 0 {
		t.Fatalf("cursor %d after 4 ticks, want 0", d.Buffer().Cursor())
	}

	var got []int
	for _, v := range d.Buffer().All() {
		got = append(got, v)
	}

	if want := []int{100, 100, 25, 100}; !slices.Equal(got, want) {
		t.Fatalf("buffer %v, want %v", got, want)
	}

	if *redraws != 4 {
		t.Fatalf("%d redraws, want 4", *redraws)
	}

	l.RunDue(clk.advance(testInterval))

	if v := d.Buffer().At(0); v != 20 {
		t.Fatalf("slot 0 = %d after wrap, want 20", v)
	}

	if d.Buffer().Cursor() != 1 {
		t.Fatalf("cursor %d, want 1", d.Buffer().Cursor())
	}
}

func TestStopCancelsPendingTick(t *testing.T) {
	src := &testSource{values: []int{1, 2, 3}}
	d, l, clk, redraws := newTestDriver(8, src)

	d.Start()
	l.RunDue(clk.advance(testInterval))

	d.Stop()
	d.Stop()

	if src.stops != 1 {
		t.Fatalf("source stopped %d times", src.stops)
	}

	if l.Len() != 0 {
		t.Fatal("tick still queued after stop")
	}

	l.RunDue(clk.advance(10 * testInterval))

	if src.reads != 1 || *redraws != 1 {
		t.Fatalf("reads %d redraws %d after stop, want 1 and 1", src.reads, *redraws)
	}

	// restart resumes at the same cursor
	d.Start()
	l.RunDue(clk.advance(testInterval))

	if d.Buffer().Cursor() != 2 {
		t.Fatalf("cursor %d, want 2", d.Buffer().Cursor())
	}
}

func TestNilSource(t *testing.T) {
	d, l, clk, _ := newTestDriver(2, nil)

	d.Start()
	l.RunDue(clk.advance(testInterval))
	d.Stop()

	if d.Buffer().Cursor() != 1 || d.Buffer().At(0) != 0 {
		t.Fatal("nil source did not write silence")
	}
}

func BenchmarkTick(b *testing.B) {
	src := &testSource{values: make([]int, 0)}
	d, l, clk, _ := newTestDriver(750, src)
	d.Normalizer().SetHeight(400)
	d.Start()

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		l.RunDue(clk.advance(testInterval))
	}
}

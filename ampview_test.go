package ampview

import (
	"context"
	"errors"
	"image"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/csvlt/ampview/graphic"
	"github.com/csvlt/ampview/input"
	_ "github.com/csvlt/ampview/input/synth"
)

type failingBackend struct{}

func (failingBackend) Init() error                                      { return nil }
func (failingBackend) Close() error                                     { return nil }
func (failingBackend) Devices() ([]input.Device, error)                 { return nil, nil }
func (failingBackend) DefaultDevice() (input.Device, error)             { return failingDevice{}, nil }
func (failingBackend) Start(input.SessionConfig) (input.Session, error) { return failingSession{}, nil }

type failingDevice struct{}

func (failingDevice) String() string { return "broken" }

type failingSession struct{}

func (failingSession) Start(ctx context.Context, dst [][]input.Sample, kick chan bool, mu *sync.Mutex) error {
	return errors.New("device unplugged")
}

func init() {
	input.RegisterBackend("test-failing", failingBackend{})
}

func testConfig(backend string, out Output) *Config {
	cfg := NewZeroConfig()
	cfg.Backend = backend
	cfg.SampleRate = 8000
	cfg.SampleSize = 80
	cfg.Points = 20
	cfg.Interval = 5 * time.Millisecond
	cfg.Output = out

	return &cfg
}

func TestRunDraws(t *testing.T) {
	out := &testOutput{width: 40, height: 80}
	cfg := testConfig("synth", out)

	var setup, cleanup bool
	cfg.SetupFunc = func() error { setup = true; return nil }
	cfg.CleanupFunc = func() error { cleanup = true; return nil }

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if err := Run(cfg, ctx); err != nil {
		t.Fatal(err)
	}

	if !setup || !cleanup {
		t.Fatalf("setup %v, cleanup %v", setup, cleanup)
	}

	if out.shows < 2 {
		t.Fatalf("%d frames shown", out.shows)
	}

	// every frame is a full projection of the buffer
	if out.fills != out.shows*cfg.Points || out.lines != out.shows {
		t.Fatalf("%d fills and %d lines over %d frames", out.fills, out.lines, out.shows)
	}
}

func TestRunInputFailure(t *testing.T) {
	out := &testOutput{width: 40, height: 80}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := Run(testConfig("test-failing", out), ctx)
	if err == nil || !strings.Contains(err.Error(), "device unplugged") {
		t.Fatalf("err = %v", err)
	}

	if ctx.Err() != nil {
		t.Fatal("run waited for the root context")
	}
}

func TestRunUnknownBackend(t *testing.T) {
	err := Run(testConfig("nope", &testOutput{}), context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestRunNoOutput(t *testing.T) {
	if err := Run(testConfig("synth", nil), context.Background()); err == nil {
		t.Fatal("expected an error")
	}
}

// resizingOutput changes size from another goroutine, like a terminal
// does.
type resizingOutput struct {
	testOutput

	mu       sync.Mutex
	onResize func()

	frameX1 float64 // right edge of the widest bar in the current frame
	lastX1  float64 // same, for the last frame shown
}

func (ro *resizingOutput) SetResizeFunc(fn func()) {
	ro.mu.Lock()
	ro.onResize = fn
	ro.mu.Unlock()
}

func (ro *resizingOutput) Size() (int, int) {
	ro.mu.Lock()
	defer ro.mu.Unlock()

	return ro.width, ro.height
}

func (ro *resizingOutput) ClipBounds() image.Rectangle {
	width, height := ro.Size()
	return image.Rect(0, 0, width, height)
}

func (ro *resizingOutput) FillRect(r graphic.Rect, g *graphic.Gradient) {
	ro.frameX1 = max(ro.frameX1, r.X1)
}

func (ro *resizingOutput) Show() {
	ro.lastX1 = ro.frameX1
	ro.frameX1 = 0
	ro.shows++
}

func (ro *resizingOutput) resize(width, height int) {
	ro.mu.Lock()
	ro.width, ro.height = width, height
	fn := ro.onResize
	ro.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func TestRunRelayoutOnResize(t *testing.T) {
	out := &resizingOutput{testOutput: testOutput{width: 40, height: 80}}
	cfg := testConfig("synth", out)

	hooked := false
	cfg.StartFunc = func(ctx context.Context) (context.Context, error) {
		// the resize hook must be in place before the output starts
		out.mu.Lock()
		hooked = out.onResize != nil
		out.mu.Unlock()

		go func() {
			time.Sleep(50 * time.Millisecond)
			out.resize(20, 40)
		}()

		return ctx, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	if err := Run(cfg, ctx); err != nil {
		t.Fatal(err)
	}

	if !hooked {
		t.Fatal("resize hook set after the output started")
	}

	if out.lastX1 != 20 {
		t.Fatalf("last frame spans %v columns, want 20 after the resize", out.lastX1)
	}
}

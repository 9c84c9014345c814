// Package execread provides a session that captures raw float samples from
// the standard output of an external recorder program.
package execread

import (
	"context"
	"encoding/binary"
	"io"
	"math"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/csvlt/ampview/input"
	"github.com/pkg/errors"
)

// Format is the sample encoding the program writes.
type Format int

// Sample Formats
const (
	Float32LE Format = iota
	Float64LE
)

// Width returns the number of bytes per sample.
func (f Format) Width() int {
	if f == Float64LE {
		return 8
	}
	return 4
}

// Session reads interleaved little endian floats from a command.
type Session struct {
	// OnStart is called after the command starts. Nil by default.
	OnStart func(ctx context.Context, cmd *exec.Cmd) error

	argv   []string
	cfg    input.SessionConfig
	format Format
}

// NewSession creates a new execread session.
func NewSession(argv []string, format Format, cfg input.SessionConfig) (*Session, error) {
	if len(argv) < 1 {
		return nil, errors.New("argv has no arg0")
	}

	return &Session{
		argv:   argv,
		cfg:    cfg,
		format: format,
	}, nil
}

// Args returns the command line the session runs.
func (s *Session) Args() []string {
	return s.argv
}

// Start runs the command and reads from it until it exits or ctx is done.
// The command's stderr would scribble over the display, so it is kept and
// only shown when the command fails.
func (s *Session) Start(ctx context.Context, dst [][]input.Sample, kick chan bool, mu *sync.Mutex) error {
	if !input.EnsureBufferLen(s.cfg, dst) {
		return errors.New("invalid dst length given")
	}

	stderr := &tailBuffer{max: 2048}

	cmd := exec.CommandContext(ctx, s.argv[0], s.argv[1:]...)
	cmd.Stderr = stderr

	o, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "failed to get stdout pipe")
	}

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "failed to start "+s.argv[0])
	}

	if s.OnStart != nil {
		if err := s.OnStart(ctx, cmd); err != nil {
			cmd.Process.Kill()
			cmd.Wait()
			return err
		}
	}

	// We need o as an *os.File for SetReadDeadline.
	of, _ := o.(*os.File)

	readErr := ReadFrames(ctx, of, o, s.format, s.cfg, dst, kick, mu)
	if readErr != nil {
		cmd.Process.Kill()
	}

	waitErr := cmd.Wait()

	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case readErr != nil:
		return readErr
	case waitErr != nil:
		return errors.Wrapf(waitErr, "%s exited: %s", s.argv[0], stderr.String())
	}

	return nil
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	buf []byte
	max int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = t.buf[over:]
	}

	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return strings.TrimSpace(string(t.buf))
}

// ReadFrames reads full windows from r into dst until r ends or ctx is done.
//
// When deadline is not nil a read that takes much longer than one window
// is abandoned and the window is filled with silence, so a stalled recorder
// shows as a flat line instead of a frozen one.
func ReadFrames(ctx context.Context, deadline *os.File, r io.Reader, format Format,
	cfg input.SessionConfig, dst [][]input.Sample, kick chan bool, mu *sync.Mutex) error {

	framesz := cfg.FrameSize
	samples := cfg.SampleSize * framesz

	reader := floatReader{
		order: binary.LittleEndian,
		f64:   format == Float64LE,
	}

	raw := make([]byte, samples*format.Width())

	windowDuration := time.Duration(
		float64(cfg.SampleSize) / cfg.SampleRate * float64(time.Second))

	var readExpired bool

	for {
		if deadline != nil {
			// after one miss we only allow a single window of slack
			timeout := windowDuration
			if !readExpired {
				timeout *= 6
			}

			if err := deadline.SetReadDeadline(time.Now().Add(timeout)); err != nil {
				// pipes on some systems have no deadline support
				deadline = nil
			}
		}

		_, err := io.ReadFull(r, raw)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
				return nil
			case errors.Is(err, os.ErrDeadlineExceeded):
				readExpired = true
			default:
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			}
		} else {
			readExpired = false
		}

		mu.Lock()
		if readExpired {
			for _, buf := range dst {
				clear(buf)
			}
		} else {
			reader.reset(raw)
			for n := 0; n < samples; n++ {
				dst[n%framesz][n/framesz] = reader.next()
			}
		}
		mu.Unlock()

		// Signal that we've written to dst.
		select {
		case <-ctx.Done():
			return ctx.Err()
		case kick <- true:
		}
	}
}

type floatReader struct {
	order binary.ByteOrder
	buf   []byte
	f64   bool
}

func (f *floatReader) reset(b []byte) {
	f.buf = b
}

func (f *floatReader) next() float64 {
	if f.f64 {
		b := f.buf[:8]
		f.buf = f.buf[8:]
		return math.Float64frombits(f.order.Uint64(b))
	}

	b := f.buf[:4]
	f.buf = f.buf[4:]
	return float64(math.Float32frombits(f.order.Uint32(b)))
}

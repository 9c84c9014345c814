// Package stdinput reads raw little endian float32 frames from standard
// input, e.g. piped from arecord or sox.
package stdinput

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/csvlt/ampview/input"
	"github.com/csvlt/ampview/input/common/execread"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("stdin", StdinBackend{})
}

type StdinBackend struct{}

func (b StdinBackend) Init() error {
	return nil
}

func (b StdinBackend) Close() error {
	return nil
}

func (b StdinBackend) Devices() ([]input.Device, error) {
	return []input.Device{StdInputDevice{}}, nil
}

func (b StdinBackend) DefaultDevice() (input.Device, error) {
	return StdInputDevice{}, nil
}

func (b StdinBackend) Start(config input.SessionConfig) (input.Session, error) {
	return NewSession(os.Stdin, config), nil
}

type StdInputDevice struct{}

func (d StdInputDevice) String() string {
	return "stdin"
}

// Session reads frames from a reader, standard input by default.
type Session struct {
	r   io.Reader
	cfg input.SessionConfig
}

// NewSession returns a session reading float32 frames from r.
func NewSession(r io.Reader, cfg input.SessionConfig) *Session {
	return &Session{
		r:   r,
		cfg: cfg,
	}
}

func (s *Session) Start(ctx context.Context, dst [][]input.Sample, kick chan bool, mu *sync.Mutex) error {
	if !input.EnsureBufferLen(s.cfg, dst) {
		return errors.New("invalid dst length given")
	}

	// a blocked read on stdin cannot be interrupted, so it is left to
	// finish on its own once ctx is done
	return execread.ReadFrames(ctx, nil, s.r, execread.Float32LE, s.cfg, dst, kick, mu)
}

package input

import (
	"context"
	"fmt"
	"sync"
)

// Sample is the datatype every session writes into its buffers.
type Sample = float64

// Device is an input device of a backend.
type Device interface {
	// String returns the device name as used by --device.
	String() string
}

// SessionConfig describes what a session should capture.
type SessionConfig struct {
	Device     Device  // device to capture from
	FrameSize  int     // number of channels per frame
	SampleSize int     // number of frames per buffer write
	SampleRate float64 // frames per second
}

// Session captures audio into a set of per channel buffers.
type Session interface {
	// Start captures until ctx is done or the input ends. Every full
	// buffer is written into dst while holding mu, then signalled on kick.
	Start(ctx context.Context, dst [][]Sample, kick chan bool, mu *sync.Mutex) error
}

// MakeBuffers allocates one buffer per channel of cfg.
func MakeBuffers(cfg SessionConfig) [][]Sample {
	bufs := make([][]Sample, cfg.FrameSize)
	for idx := range bufs {
		bufs[idx] = make([]Sample, cfg.SampleSize)
	}

	return bufs
}

// EnsureBufferLen reports whether dst is shaped for cfg.
func EnsureBufferLen(cfg SessionConfig, dst [][]Sample) bool {
	if len(dst) != cfg.FrameSize {
		return false
	}

	for _, buf := range dst {
		if len(buf) != cfg.SampleSize {
			return false
		}
	}

	return true
}

// Validate checks that cfg can be used to start a session.
func (cfg SessionConfig) Validate() error {
	switch {
	case cfg.FrameSize < 1:
		return fmt.Errorf("too few channels (%d)", cfg.FrameSize)
	case cfg.SampleSize < 1:
		return fmt.Errorf("sample size too small (%d)", cfg.SampleSize)
	case cfg.SampleRate <= 0:
		return fmt.Errorf("invalid sample rate %v", cfg.SampleRate)
	}

	return nil
}

// Package synth generates a test signal for running without a microphone.
package synth

import (
	"context"
	"math"
	"sync"

	"github.com/csvlt/ampview/input"
	"github.com/csvlt/ampview/input/common/timer"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("synth", Backend{})
}

// Signal shape.
const (
	ToneFreq   = 220.0 // Hz
	SwellFreq  = 0.2   // Hz, envelope of the tone
	BurstEvery = 4.0   // seconds between bursts
	BurstLen   = 0.25  // seconds
	Quiet      = 0.05  // envelope floor
	Swell      = 0.35  // envelope swing above the floor
)

type Backend struct{}

func (b Backend) Init() error {
	return nil
}

func (b Backend) Close() error {
	return nil
}

func (b Backend) Devices() ([]input.Device, error) {
	return []input.Device{Device{}}, nil
}

func (b Backend) DefaultDevice() (input.Device, error) {
	return Device{}, nil
}

func (b Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	return &Session{
		cfg: cfg,
		gen: NewGenerator(cfg.SampleRate),
	}, nil
}

type Device struct{}

func (d Device) String() string {
	return "tone"
}

// Generator produces an amplitude modulated sine with a short loud burst
// every few seconds.
type Generator struct {
	rate  float64
	frame uint64
}

// NewGenerator returns a generator at rate frames per second.
func NewGenerator(rate float64) *Generator {
	return &Generator{rate: rate}
}

// Next returns the next sample.
func (g *Generator) Next() float64 {
	t := float64(g.frame) / g.rate
	g.frame++

	env := Quiet + Swell*(0.5+0.5*math.Sin(2*math.Pi*SwellFreq*t))
	if math.Mod(t, BurstEvery) < BurstLen {
		env = 1
	}

	return env * math.Sin(2*math.Pi*ToneFreq*t)
}

// Fill writes the next len(dst[0]) frames. Every channel gets the same
// signal.
func (g *Generator) Fill(dst [][]input.Sample) {
	if len(dst) == 0 {
		return
	}

	for i := range dst[0] {
		v := g.Next()
		for ch := range dst {
			dst[ch][i] = v
		}
	}
}

// Session feeds the generator at the configured sample rate.
type Session struct {
	cfg input.SessionConfig
	gen *Generator
}

func (s *Session) Start(ctx context.Context, dst [][]input.Sample, kick chan bool, mu *sync.Mutex) error {
	if !input.EnsureBufferLen(s.cfg, dst) {
		return errors.New("invalid dst length given")
	}

	window := timer.Window(s.cfg.SampleSize, s.cfg.SampleRate)

	return timer.Process(ctx, window, func() error {
		mu.Lock()
		s.gen.Fill(dst)
		mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case kick <- true:
		}

		return nil
	})
}

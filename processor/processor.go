package processor

import (
	"time"

	"github.com/csvlt/ampview/dsp"
	"github.com/csvlt/ampview/util"
)

// Source is the audio input the driver polls on every tick.
//
// Every call must return quickly; Read pulls whatever the source captured
// since the last call and MeanAmplitude reports on that window.
type Source interface {
	Start()
	Stop()
	Read()
	MeanAmplitude() int
}

// State is the driver state.
type State int

// Driver states
const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// DefaultInterval is the tick period used when none is configured.
const DefaultInterval = 30 * time.Millisecond

type Config struct {
	Interval time.Duration // time between ticks
	Points   int           // number of amplitude slots
	Loop     *Loop         // loop the ticks run on
	Source   Source        // audio input
	Redraw   func()        // called after every write
}

// Driver samples the source on a fixed interval and stores normalized
// amplitudes in a circular buffer.
//
// All methods must be called on the loop goroutine.
type Driver struct {
	interval time.Duration

	loop   *Loop
	source Source
	redraw func()

	buffer *util.AmplitudeBuffer
	norm   *dsp.Normalizer

	state State
	tick  *Task
}

// New returns a stopped driver.
func New(cfg Config) *Driver {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}

	d := &Driver{
		interval: cfg.Interval,
		loop:     cfg.Loop,
		source:   cfg.Source,
		redraw:   cfg.Redraw,
		buffer:   util.NewAmplitudeBuffer(cfg.Points),
		norm:     dsp.NewNormalizer(0),
	}

	d.tick = NewTask(d.process)

	return d
}

// Start begins ticking. It does nothing if the driver is already running.
func (d *Driver) Start() {
	if d.state == Running {
		return
	}

	d.state = Running

	if d.source != nil {
		d.source.Start()
	}

	d.loop.PostDelayed(d.tick, d.interval)
}

// Stop cancels the pending tick and stops the source. It does nothing if
// the driver is already stopped.
func (d *Driver) Stop() {
	if d.state == Stopped {
		return
	}

	d.state = Stopped

	d.loop.Remove(d.tick)

	if d.source != nil {
		d.source.Stop()
	}
}

// State returns the current driver state.
func (d *Driver) State() State {
	return d.state
}

// Buffer returns the amplitude buffer.
func (d *Driver) Buffer() *util.AmplitudeBuffer {
	return d.buffer
}

// Normalizer returns the normalizer feeding the buffer.
func (d *Driver) Normalizer() *dsp.Normalizer {
	return d.norm
}

// process runs one tick.
func (d *Driver) process() {
	if d.state != Running {
		return
	}

	amplitude := 0
	if d.source != nil {
		d.source.Read()
		amplitude = d.source.MeanAmplitude()
	}

	d.buffer.WriteAt(d.norm.Normalize(amplitude))
	d.buffer.Advance()

	if d.redraw != nil {
		d.redraw()
	}

	d.loop.PostDelayed(d.tick, d.interval)
}

package ampview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/csvlt/ampview/graphic"
)

// Limits on the capture settings.
const (
	MaxChannelCount = 2
	MaxSampleSize   = 1 << 16
	MaxPoints       = 1 << 16
)

// Defaults
const (
	DefaultPoints   = 750
	DefaultInterval = 30 * time.Millisecond
)

// Output is the surface the view is drawn on.
type Output interface {
	graphic.Canvas
	// Show puts everything drawn since the last Show on screen.
	Show()
}

// SetupFunc is called before the pipeline starts.
type SetupFunc func() error

// StartFunc is called with the root context once the pipeline is set up.
// The returned context replaces it.
type StartFunc func(ctx context.Context) (context.Context, error)

// CleanupFunc is called after the pipeline has stopped.
type CleanupFunc func() error

type Config struct {
	// The name of the backend from the input package. Empty picks the
	// platform default.
	Backend string
	// The name of the device to pull data from
	Device string
	// The rate that samples are read
	SampleRate float64
	// The number of samples per batch
	SampleSize int
	// The number of channels to read data from
	ChannelCount int
	// The number of amplitude bars kept on screen
	Points int
	// Time between amplitude samples
	Interval time.Duration

	// Function to call when setting up the pipeline
	SetupFunc SetupFunc
	// Function to call when starting the pipeline
	StartFunc StartFunc
	// Function to call when cleaning up the pipeline
	CleanupFunc CleanupFunc
	// Where to draw the amplitude view
	Output Output
}

func NewZeroConfig() Config {
	return Config{
		SampleRate:   44100,
		SampleSize:   1024,
		ChannelCount: 1,
		Points:       DefaultPoints,
		Interval:     DefaultInterval,
	}
}

func (cfg *Config) Validate() error {
	if cfg.SampleRate < float64(cfg.SampleSize) {
		return errors.New("sample rate lower than sample size")
	}

	if cfg.SampleSize < 4 {
		return errors.New("sample size too small (4+ required)")
	}

	switch {
	case cfg.ChannelCount > MaxChannelCount:
		return fmt.Errorf("too many channels (%d max)", MaxChannelCount)

	case cfg.ChannelCount < 1:
		return errors.New("too few channels (1 min)")

	case cfg.SampleSize > MaxSampleSize:
		return fmt.Errorf("sample size too large (%d max)", MaxSampleSize)
	}

	switch {
	case cfg.Points < 1:
		return errors.New("too few points (1 min)")

	case cfg.Points > MaxPoints:
		return fmt.Errorf("too many points (%d max)", MaxPoints)
	}

	if cfg.Interval < time.Millisecond {
		return errors.New("interval too short (1ms min)")
	}

	return nil
}

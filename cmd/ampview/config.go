package main

import (
	"time"

	"github.com/csvlt/ampview"
)

// config holds the command line flags.
type config struct {
	// Backend is the backend name from list-backends
	backend string
	// Device is the device name from list-devices
	device string
	// SampleRate is the rate at which samples are read
	sampleRate float64
	// SampleSize is the number of frames per read window
	sampleSize int
	// ChannelCount is the number of channels averaged into one amplitude
	channelCount int
	// Points is the number of bars kept on screen
	points int
	// Interval is the time between amplitude samples, in milliseconds
	interval int
}

func newZeroConfig() config {
	return config{
		sampleRate:   44100,
		sampleSize:   1024,
		channelCount: 1,
		points:       ampview.DefaultPoints,
		interval:     int(ampview.DefaultInterval / time.Millisecond),
	}
}

// ampviewConfig copies the flags into a pipeline config.
func (cfg *config) ampviewConfig() ampview.Config {
	c := ampview.NewZeroConfig()

	c.Backend = cfg.backend
	c.Device = cfg.device
	c.SampleRate = cfg.sampleRate
	c.SampleSize = cfg.sampleSize
	c.ChannelCount = cfg.channelCount
	c.Points = cfg.points
	c.Interval = time.Duration(cfg.interval) * time.Millisecond

	return c
}

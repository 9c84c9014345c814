//go:build cgo

// Package portaudio captures from PortAudio input devices.
package portaudio

import (
	"context"
	"fmt"
	"sync"

	"github.com/csvlt/ampview/input"
	"github.com/gordonklaus/portaudio"
	"github.com/pkg/errors"
)

var GlobalBackend = &Backend{}

func init() {
	input.RegisterBackend("portaudio", GlobalBackend)
}

// Backend represents the Portaudio backend. A zero-value instance is a
// valid instance.
type Backend struct {
	mu          sync.Mutex
	initialized bool
}

func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	if err := portaudio.Initialize(); err != nil {
		return errors.Wrap(err, "failed to initialize portaudio")
	}

	b.initialized = true
	return nil
}

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return nil
	}

	b.initialized = false
	return portaudio.Terminate()
}

// Devices returns every device with at least one input channel.
func (b *Backend) Devices() ([]input.Device, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list devices")
	}

	var gDevices []input.Device
	for _, device := range devices {
		if device.MaxInputChannels < 1 {
			continue
		}
		gDevices = append(gDevices, Device{device})
	}

	return gDevices, nil
}

func (b *Backend) DefaultDevice() (input.Device, error) {
	device, err := portaudio.DefaultInputDevice()
	if err != nil {
		return nil, errors.Wrap(err, "no default input device found")
	}

	return Device{device}, nil
}

func (b *Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	return NewSession(cfg)
}

// Device represents a Portaudio device.
type Device struct {
	*portaudio.DeviceInfo
}

// String returns the device name.
func (d Device) String() string {
	return d.Name
}

// Session is an input source that pulls from Portaudio.
type Session struct {
	stream    *portaudio.Stream
	config    input.SessionConfig
	sampleBuf []float32 // interleaved scratch buffer the stream reads into
}

// NewSession opens a blocking input stream on the configured device.
func NewSession(config input.SessionConfig) (*Session, error) {
	dv, ok := config.Device.(Device)
	if !ok {
		return nil, fmt.Errorf("device is on unknown type %T", config.Device)
	}

	if config.FrameSize > dv.MaxInputChannels {
		return nil, fmt.Errorf("device %q has %d input channels, %d requested",
			dv.Name, dv.MaxInputChannels, config.FrameSize)
	}

	param := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dv.DeviceInfo,
			Latency:  dv.DefaultLowInputLatency,
			Channels: config.FrameSize,
		},
		SampleRate:      config.SampleRate,
		FramesPerBuffer: config.SampleSize,
	}

	buffer := make([]float32, config.SampleSize*config.FrameSize)

	stream, err := portaudio.OpenStream(param, buffer)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open stream")
	}

	return &Session{
		stream:    stream,
		config:    config,
		sampleBuf: buffer,
	}, nil
}

// Start reads from the stream until ctx is done. Overflows are ignored; the
// next window simply starts later.
func (s *Session) Start(ctx context.Context, dst [][]input.Sample, kick chan bool, mu *sync.Mutex) error {
	if !input.EnsureBufferLen(s.config, dst) {
		return errors.New("invalid dst length given")
	}

	if err := s.stream.Start(); err != nil {
		s.stream.Close()
		return errors.Wrap(err, "failed to start stream")
	}

	defer s.stream.Close()
	defer s.stream.Stop()

	framesz := s.config.FrameSize

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := s.stream.Read(); err != nil && err != portaudio.InputOverflowed {
			return errors.Wrap(err, "failed to read stream")
		}

		mu.Lock()
		for n, v := range s.sampleBuf {
			dst[n%framesz][n/framesz] = input.Sample(v)
		}
		mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case kick <- true:
		}
	}
}

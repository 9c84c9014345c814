// Package parec captures from PulseAudio sources with the parec tool.
package parec

import (
	"fmt"
	"strings"

	"github.com/csvlt/ampview/input"
	"github.com/csvlt/ampview/input/common/execread"
	"github.com/lawl/pulseaudio"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("parec", Backend{})
}

type Backend struct{}

func (p Backend) Init() error {
	return nil
}

func (p Backend) Close() error {
	return nil
}

// Devices lists the PulseAudio sources. Monitors of output sinks are left
// out unless nothing else is available.
func (p Backend) Devices() ([]input.Device, error) {
	c, err := pulseaudio.NewClient()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create client")
	}
	defer c.Close()

	s, err := c.Sources()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sources")
	}

	var devices, monitors []input.Device
	for _, source := range s {
		if IsMonitor(source.Name) {
			monitors = append(monitors, PulseDevice(source.Name))
			continue
		}

		devices = append(devices, PulseDevice(source.Name))
	}

	if len(devices) == 0 {
		return monitors, nil
	}

	return devices, nil
}

// DefaultDevice returns the server's default source.
func (p Backend) DefaultDevice() (input.Device, error) {
	c, err := pulseaudio.NewClient()
	if err != nil {
		// let parec resolve it on its own
		return PulseDevice("@DEFAULT_SOURCE@"), nil
	}
	defer c.Close()

	info, err := c.ServerInfo()
	if err != nil || info.DefaultSource == "" {
		return PulseDevice("@DEFAULT_SOURCE@"), nil
	}

	return PulseDevice(info.DefaultSource), nil
}

func (p Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	return NewSession(cfg)
}

// IsMonitor reports whether name is the monitor of an output sink.
func IsMonitor(name string) bool {
	return strings.HasSuffix(name, ".monitor")
}

// PulseDevice is the name of a PulseAudio source.
type PulseDevice string

func (d PulseDevice) String() string {
	return string(d)
}

// NewSession returns a session running parec on the configured source.
func NewSession(cfg input.SessionConfig) (*execread.Session, error) {
	dv, ok := cfg.Device.(PulseDevice)
	if !ok {
		return nil, fmt.Errorf("invalid device type %T", cfg.Device)
	}

	if cfg.FrameSize > 2 {
		return nil, errors.New("channel count not supported, mono/stereo only")
	}

	return execread.NewSession(Args(dv, cfg), execread.Float32LE, cfg)
}

// Args returns the parec command line for cfg.
func Args(dv PulseDevice, cfg input.SessionConfig) []string {
	return []string{
		"parec",
		"--format=float32le",
		"--raw",
		fmt.Sprintf("--rate=%.0f", cfg.SampleRate),
		fmt.Sprintf("--channels=%d", cfg.FrameSize),
		fmt.Sprintf("--latency=%d", cfg.SampleSize*cfg.FrameSize*4),
		"--client-name=ampview",
		"-d", dv.String(),
	}
}

// Package pipewire captures from PipeWire sources with pw-record.
package pipewire

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/csvlt/ampview/input"
	"github.com/csvlt/ampview/input/common/execread"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("pipewire", &Backend{})
}

// Backend captures with pw-record. Init checks which options the installed
// pw-record takes so Start never has to run it.
type Backend struct {
	mu          sync.Mutex
	initialized bool
	raw         bool // pw-record needs --raw
}

func (p *Backend) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	out, err := exec.Command("pw-record", "--help").Output()
	if err != nil {
		return errors.Wrap(err, "failed to check pw-record options")
	}

	p.raw = NeedsRaw(string(out))
	p.initialized = true

	return nil
}

func (p *Backend) Close() error {
	return nil
}

func (p *Backend) Devices() ([]input.Device, error) {
	pwObjs, err := pwDump(context.Background())
	if err != nil {
		return nil, err
	}

	sources := pwObjs.Sources()

	devices := make([]input.Device, len(sources))
	for i, source := range sources {
		devices[i] = AudioDevice{source.Info.Props.NodeName}
	}

	return devices, nil
}

// DefaultDevice lets the session manager pick the default source.
func (p *Backend) DefaultDevice() (input.Device, error) {
	return AudioDevice{""}, nil
}

func (p *Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	p.mu.Lock()
	initialized, raw := p.initialized, p.raw
	p.mu.Unlock()

	if !initialized {
		return nil, errors.New("pipewire backend is not initialized")
	}

	return NewSession(cfg, raw)
}

// AudioDevice is a PipeWire node name. The empty name is the default source.
type AudioDevice struct {
	name string
}

func (d AudioDevice) String() string {
	if d.name == "" {
		return "default"
	}
	return d.name
}

// NewSession creates a new PipeWire session. raw selects the --raw flag
// newer pw-record releases need to write samples to stdout.
func NewSession(cfg input.SessionConfig, raw bool) (*execread.Session, error) {
	dv, ok := cfg.Device.(AudioDevice)
	if !ok {
		return nil, fmt.Errorf("invalid device type %T", cfg.Device)
	}

	return execread.NewSession(Args(dv, cfg, raw), execread.Float32LE, cfg)
}

// NeedsRaw reports whether a pw-record help text lists --raw. Older
// releases write raw samples for "-" and reject the flag.
func NeedsRaw(help string) bool {
	return strings.Contains(help, "--raw")
}

// Args returns the pw-record command line for cfg.
func Args(dv AudioDevice, cfg input.SessionConfig, raw bool) []string {
	args := []string{
		"pw-record",
		"--format", "f32",
		"--rate", fmt.Sprint(cfg.SampleRate),
		"--latency", fmt.Sprint(cfg.SampleSize),
		"--channels", fmt.Sprint(cfg.FrameSize),
		"--media-category", "Capture",
		"--media-role", "DSP",
		"--properties", `{"application.name":"ampview"}`,
	}

	if dv.name != "" {
		args = append(args, "--target", dv.name)
	}

	if raw {
		args = append(args, "--raw")
	}

	return append(args, "-")
}

// Package ffmpeg captures audio by running ffmpeg with a platform input
// format and reading raw doubles from its output.
package ffmpeg

import (
	"fmt"

	"github.com/csvlt/ampview/input"
	"github.com/csvlt/ampview/input/common/execread"
)

// Device is a device ffmpeg can open as an input.
type Device interface {
	input.Device
	// InputArgs returns the ffmpeg arguments selecting the device.
	InputArgs() []string
}

// Args returns the ffmpeg command line capturing from dv.
func Args(dv Device, cfg input.SessionConfig) []string {
	args := []string{"ffmpeg", "-hide_banner", "-loglevel", "error", "-nostdin"}
	args = append(args, dv.InputArgs()...)
	args = append(args,
		"-ar", fmt.Sprintf("%.0f", cfg.SampleRate),
		"-ac", fmt.Sprintf("%d", cfg.FrameSize),
		"-f", "f64le",
		"-",
	)

	return args
}

// NewSession returns a session running ffmpeg on dv.
func NewSession(dv Device, cfg input.SessionConfig) (*execread.Session, error) {
	return execread.NewSession(Args(dv, cfg), execread.Float64LE, cfg)
}

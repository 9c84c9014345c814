// Package wavfile replays a WAV file in real time as if it were a live
// input. The device name is the path of the file.
package wavfile

import (
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/csvlt/ampview/input"
	"github.com/csvlt/ampview/input/common/timer"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("wav", Backend{})
}

type Backend struct{}

func (b Backend) Init() error {
	return nil
}

func (b Backend) Close() error {
	return nil
}

// Devices lists the WAV files in the working directory.
func (b Backend) Devices() ([]input.Device, error) {
	matches, err := filepath.Glob("*.wav")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list wav files")
	}

	devices := make([]input.Device, len(matches))
	for i, path := range matches {
		devices[i] = File(path)
	}

	return devices, nil
}

func (b Backend) DefaultDevice() (input.Device, error) {
	return nil, errors.New("the wav backend needs a file given as the device")
}

// ParseDevice accepts any path to a readable file.
func (b Backend) ParseDevice(name string) (input.Device, error) {
	if _, err := os.Stat(name); err != nil {
		return nil, errors.Wrap(err, "failed to open wav file")
	}

	return File(name), nil
}

func (b Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	dv, ok := cfg.Device.(File)
	if !ok {
		return nil, errors.Errorf("invalid device type %T", cfg.Device)
	}

	return &Session{path: string(dv), cfg: cfg}, nil
}

// File is the path of a WAV file.
type File string

func (f File) String() string {
	return string(f)
}

// Session decodes the file one window at a time, paced at the file's own
// sample rate. The configured rate is ignored.
type Session struct {
	path string
	cfg  input.SessionConfig
}

func (s *Session) Start(ctx context.Context, dst [][]input.Sample, kick chan bool, mu *sync.Mutex) error {
	if !input.EnsureBufferLen(s.cfg, dst) {
		return errors.New("invalid dst length given")
	}

	f, err := os.Open(s.path)
	if err != nil {
		return errors.Wrap(err, "failed to open wav file")
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return errors.Errorf("invalid WAV file: %s", s.path)
	}

	if err := decoder.FwdToPCM(); err != nil {
		return errors.Wrap(err, "failed to find pcm data")
	}

	format := decoder.Format()
	bitDepth := int(decoder.SampleBitDepth())
	if bitDepth == 0 || format.NumChannels < 1 || format.SampleRate < 1 {
		return errors.Errorf("unsupported WAV format in %s", s.path)
	}

	buf := &audio.IntBuffer{
		Format:         format,
		Data:           make([]int, s.cfg.SampleSize*format.NumChannels),
		SourceBitDepth: bitDepth,
	}

	window := timer.Window(s.cfg.SampleSize, float64(format.SampleRate))

	err = timer.Process(ctx, window, func() error {
		n, err := decoder.PCMBuffer(buf)
		if err != nil {
			return errors.Wrap(err, "failed to decode wav file")
		}

		if n == 0 {
			return io.EOF
		}

		mu.Lock()
		Deinterleave(dst, buf.Data[:n], format.NumChannels, bitDepth)
		mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case kick <- true:
		}

		return nil
	})

	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}

// Deinterleave scales integer samples to [-1, 1] and spreads them over dst.
// Channels missing from the file repeat its last channel, and a short read
// leaves the tail of each buffer silent.
func Deinterleave(dst [][]input.Sample, data []int, channels, bitDepth int) {
	factor := math.Pow(2, float64(bitDepth-1))
	frames := len(data) / channels

	for ch, out := range dst {
		src := min(ch, channels-1)

		for i := range out {
			if i >= frames {
				out[i] = 0
				continue
			}

			out[i] = float64(data[i*channels+src]) / factor
		}
	}
}

package ffmpeg

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/csvlt/ampview/input"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("ffmpeg-alsa", ALSA{})
}

// ALSA captures from ALSA devices through ffmpeg.
type ALSA struct{}

func (p ALSA) Init() error {
	return nil
}

func (p ALSA) Close() error {
	return nil
}

// Devices returns the capture devices listed in /proc/asound/pcm.
func (p ALSA) Devices() ([]input.Device, error) {
	f, err := os.Open("/proc/asound/pcm")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open pcm")
	}
	defer f.Close()

	return ParsePCMList(f)
}

func (p ALSA) DefaultDevice() (input.Device, error) {
	return ALSADevice("default"), nil
}

func (p ALSA) Start(cfg input.SessionConfig) (input.Session, error) {
	dv, ok := cfg.Device.(ALSADevice)
	if !ok {
		return nil, fmt.Errorf("invalid device type %T", cfg.Device)
	}

	return NewSession(dv, cfg)
}

// ParsePCMList reads the /proc/asound/pcm format and returns the devices
// that can capture. Lines look like
//
//	00-00: ALC892 Analog : ALC892 Analog : playback 1 : capture 1
func ParsePCMList(r io.Reader) ([]input.Device, error) {
	var devices []input.Device

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		if !strings.Contains(line, "capture") {
			continue
		}

		prefix := strings.SplitN(line, ":", 2)[0]

		d, err := ParseALSADevice(prefix)
		if err != nil {
			return nil, fmt.Errorf("failed to parse device %q: %w", prefix, err)
		}

		devices = append(devices, d)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read pcm list")
	}

	return devices, nil
}

// ALSADevice is an ALSA device name such as hw:0,0.
type ALSADevice string

// ParseALSADevice turns a card-device pair like 01-00 into hw:1,0.
func ParseALSADevice(hwString string) (ALSADevice, error) {
	parts := strings.Split(strings.TrimSpace(hwString), "-")
	if len(parts) != 2 {
		return "", errors.New("mismatch alsa format")
	}

	card, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", errors.Wrap(err, "bad card number")
	}

	dev, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", errors.Wrap(err, "bad device number")
	}

	return ALSADevice(fmt.Sprintf("hw:%d,%d", card, dev)), nil
}

func (d ALSADevice) InputArgs() []string {
	return []string{"-f", "alsa", "-i", string(d)}
}

func (d ALSADevice) String() string {
	return string(d)
}

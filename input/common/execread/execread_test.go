package execread

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"sync"
	"testing"

	"github.com/csvlt/ampview/input"
)

func encode(format Format, values ...float64) []byte {
	var out bytes.Buffer
	for _, v := range values {
		if format == Float64LE {
			binary.Write(&out, binary.LittleEndian, math.Float64bits(v))
		} else {
			binary.Write(&out, binary.LittleEndian, math.Float32bits(float32(v)))
		}
	}
	return out.Bytes()
}

func TestReadFramesDeinterleaves(t *testing.T) {
	for _, format := range []Format{Float32LE, Float64LE} {
		cfg := input.SessionConfig{FrameSize: 2, SampleSize: 2, SampleRate: 8000}
		dst := input.MakeBuffers(cfg)

		// two windows; the trailing half frame is dropped
		data := encode(format, 0.5, -0.5, 0.25, -0.25, 1, 0, 0.75, 0, 0.125)

		kick := make(chan bool, 4)
		err := ReadFrames(context.Background(), nil, bytes.NewReader(data), format,
			cfg, dst, kick, &sync.Mutex{})
		if err != nil {
			t.Fatalf("format %d: %v", format, err)
		}

		if len(kick) != 2 {
			t.Fatalf("format %d: %d windows signalled, want 2", format, len(kick))
		}

		want := [][]float64{{1, 0.75}, {0, 0}}
		for ch := range want {
			for i := range want[ch] {
				if dst[ch][i] != want[ch][i] {
					t.Errorf("format %d: dst[%d][%d] = %v, want %v", format, ch, i, dst[ch][i], want[ch][i])
				}
			}
		}
	}
}

func TestReadFramesCancel(t *testing.T) {
	cfg := input.SessionConfig{FrameSize: 1, SampleSize: 1, SampleRate: 8000}
	dst := input.MakeBuffers(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// kick has no room, so the first window blocks on ctx
	err := ReadFrames(ctx, nil, bytes.NewReader(encode(Float32LE, 1, 1)), Float32LE,
		cfg, dst, make(chan bool), &sync.Mutex{})

	if err != context.Canceled {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestNewSessionNeedsArgv(t *testing.T) {
	if _, err := NewSession(nil, Float32LE, input.SessionConfig{}); err == nil {
		t.Fatal("accepted empty argv")
	}
}

package dsp

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// AmplitudeScale is the peak of a signed 16 bit sample. Mean amplitudes are
// reported on this scale.
const AmplitudeScale = math.MaxInt16

// MeanMagnitude returns the mean absolute sample value over every channel.
func MeanMagnitude(bufs [][]float64) float64 {
	var (
		sum   float64
		count int
	)

	for _, buf := range bufs {
		if len(buf) == 0 {
			continue
		}

		sum += floats.Norm(buf, 1)
		count += len(buf)
	}

	if count == 0 {
		return 0.0
	}

	return sum / float64(count)
}

// MeanAmplitude returns MeanMagnitude scaled to AmplitudeScale.
// NaN samples count as silence; the result is never negative.
func MeanAmplitude(bufs [][]float64) int {
	mean := MeanMagnitude(bufs)

	if math.IsNaN(mean) || mean <= 0 {
		return 0
	}

	if math.IsInf(mean, 1) || mean >= 1.0 {
		mean = 1.0
	}

	return int(math.Round(mean * AmplitudeScale))
}

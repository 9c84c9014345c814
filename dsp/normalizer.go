package dsp

import "math"

// Normalizer maps raw amplitudes onto a display height.
//
// The loudest amplitude seen so far always maps to the full height. The
// maximum never decays, so one loud transient compresses every quieter
// sample that comes after it for the rest of the session.
type Normalizer struct {
	height int // surface height, 0 until measured
	max    int // running maximum
}

// NewNormalizer returns a normalizer for the given height.
func NewNormalizer(height int) *Normalizer {
	n := &Normalizer{}
	n.SetHeight(height)
	return n
}

// SetHeight sets the height values are scaled to.
func (n *Normalizer) SetHeight(height int) {
	if height < 0 {
		height = 0
	}

	n.height = height
}

// Height returns the height values are scaled to.
func (n *Normalizer) Height() int {
	return n.height
}

// Max returns the running maximum.
func (n *Normalizer) Max() int {
	return n.max
}

// Normalize folds raw into the running maximum and returns it scaled into
// [0, height]. Negative values count as silence.
func (n *Normalizer) Normalize(raw int) int {
	if raw < 0 {
		raw = 0
	}

	if raw > n.max {
		n.max = raw
	}

	if n.max == 0 {
		return 0
	}

	v := int(math.Round(float64(raw) * float64(n.height) / float64(n.max)))

	// raw <= max, rounding cannot push past height
	return v
}

package graphic

// Geometry is the layout of the amplitude bars on a surface.
//
// It is measured once, on the first draw after a layout pass, and kept
// until Reset.
type Geometry struct {
	Width     int     // surface width
	Height    int     // surface height, also the full bar height
	BandWidth float64 // width of one bar

	measured bool
}

// Measure fills in the geometry for a surface of width x height holding
// points bars. It returns false and changes nothing if the geometry is
// already measured or the surface has no area yet.
func (g *Geometry) Measure(width, height, points int) bool {
	if g.measured || width <= 0 || height <= 0 {
		return false
	}

	if points < 1 {
		points = 1
	}

	g.Width = width
	g.Height = height
	g.BandWidth = float64(width) / float64(points)
	g.measured = true

	return true
}

// Measured reports whether Measure has run since the last Reset.
func (g *Geometry) Measured() bool {
	return g.measured
}

// Reset forgets the measured values. The next Measure recomputes them.
func (g *Geometry) Reset() {
	*g = Geometry{}
}

package graphic

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Default gradient stops, loud to quiet.
var (
	GradientLoud  = colorful.Color{R: 1, G: 0, B: 0}
	GradientMid   = colorful.Color{R: 1, G: 1, B: 0}
	GradientQuiet = colorful.Color{R: 0, G: 1, B: 0}
)

// Gradient is a vertical colour ramp over [0, height]. The first stop sits at
// the top of the surface and the last at the bottom, with the rest spread
// evenly between them.
type Gradient struct {
	stops  []colorful.Color
	height float64
}

// NewGradient returns a gradient spanning height. With no stops it falls
// back to the default loud/mid/quiet ramp.
func NewGradient(height float64, stops ...colorful.Color) *Gradient {
	if len(stops) == 0 {
		stops = []colorful.Color{GradientLoud, GradientMid, GradientQuiet}
	}

	return &Gradient{
		stops:  stops,
		height: height,
	}
}

// Height returns the span of the gradient.
func (g *Gradient) Height() float64 {
	return g.height
}

// At returns the colour at vertical position y. Positions outside the span
// take the nearest end colour.
func (g *Gradient) At(y float64) colorful.Color {
	if len(g.stops) == 1 || g.height <= 0 {
		return g.stops[0]
	}

	t := y / g.height
	switch {
	case t <= 0:
		return g.stops[0]
	case t >= 1:
		return g.stops[len(g.stops)-1]
	}

	segments := float64(len(g.stops) - 1)
	pos := t * segments
	idx := int(pos)

	return g.stops[idx].BlendRgb(g.stops[idx+1], pos-float64(idx)).Clamped()
}

// Color returns At(y) as a terminal colour.
func (g *Gradient) Color(y float64) tcell.Color {
	r, gr, b := g.At(y).RGB255()
	return tcell.NewRGBColor(int32(r), int32(gr), int32(b))
}

package ampview

import (
	"github.com/csvlt/ampview/graphic"
	"github.com/csvlt/ampview/processor"
)

// View draws a driver's amplitude buffer.
//
// The surface is measured on the first draw after construction or
// Relayout, which is also when the normalizer learns the bar height.
type View struct {
	driver *processor.Driver

	geo  graphic.Geometry
	grad *graphic.Gradient
}

func NewView(driver *processor.Driver) *View {
	return &View{driver: driver}
}

// Draw renders the buffer onto c and reports whether anything was drawn.
func (v *View) Draw(c graphic.Canvas) bool {
	if !v.geo.Measured() {
		width, height := c.Size()

		buf := v.driver.Buffer()
		if v.geo.Measure(width, height, buf.Len()) {
			v.driver.Normalizer().SetHeight(v.geo.Height)
			v.grad = graphic.NewGradient(float64(v.geo.Height))
		}
	}

	if !v.geo.Measured() {
		return false
	}

	return graphic.Render(c, v.driver.Buffer(), v.geo, v.grad)
}

// Relayout drops the measured geometry so the next Draw measures again.
func (v *View) Relayout() {
	v.geo.Reset()
}

// Geometry returns the current layout.
func (v *View) Geometry() graphic.Geometry {
	return v.geo
}

package graphic

import (
	"image"
	"iter"

	"github.com/csvlt/ampview/util"

	"github.com/gdamore/tcell/v2"
)

// CursorColor is the colour of the line drawn just past the write cursor.
var CursorColor = tcell.ColorWhite

// Rect is an axis aligned rectangle in surface units, [X0, X1) x [Y0, Y1).
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.X0 >= r.X1 || r.Y0 >= r.Y1
}

// Canvas is a surface the amplitude view draws on.
type Canvas interface {
	// Size returns the surface size in drawing units.
	Size() (int, int)
	// ClipBounds returns the area that will be shown. Nothing is drawn when
	// it is empty.
	ClipBounds() image.Rectangle
	// FillRect paints r with the gradient.
	FillRect(r Rect, g *Gradient)
	// DrawLine draws a vertical line at x from y0 to y1.
	DrawLine(x, y0, y1 float64, color tcell.Color)
}

// CommandType is the type of a draw command
type CommandType int

// Command Types
const (
	CommandBar CommandType = iota
	CommandCursor
)

// Command is one draw primitive produced from the amplitude buffer.
type Command struct {
	Type  CommandType
	Rect  Rect        // bar area, or the line as a zero width rect
	Color tcell.Color // line colour, unused for bars
}

// Commands yields one bar per buffer slot, in index order, then the cursor
// line. The sequence is lazy and can be ranged over again.
func Commands(buf *util.AmplitudeBuffer, geo Geometry) iter.Seq[Command] {
	return func(yield func(Command) bool) {
		height := float64(geo.Height)
		band := geo.BandWidth

		for idx, value := range buf.All() {
			x := float64(idx) * band

			bar := Command{
				Type: CommandBar,
				Rect: Rect{
					X0: x,
					Y0: height - float64(value),
					X1: x + band,
					Y1: height,
				},
			}

			if !yield(bar) {
				return
			}
		}

		x := float64(buf.Cursor())*band + band

		yield(Command{
			Type:  CommandCursor,
			Rect:  Rect{X0: x, Y0: 0, X1: x, Y1: height},
			Color: CursorColor,
		})
	}
}

// Render replays Commands onto c, painting bars with grad. It reports
// whether anything was drawn.
func Render(c Canvas, buf *util.AmplitudeBuffer, geo Geometry, grad *Gradient) bool {
	if c.ClipBounds().Empty() {
		return false
	}

	for cmd := range Commands(buf, geo) {
		switch cmd.Type {
		case CommandBar:
			c.FillRect(cmd.Rect, grad)

		case CommandCursor:
			c.DrawLine(cmd.Rect.X0, cmd.Rect.Y0, cmd.Rect.Y1, cmd.Color)
		}
	}

	return true
}

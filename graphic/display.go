package graphic

import (
	"context"
	"image"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
)

const (
	// DisplayBar is the block we use for full cells
	DisplayBar rune = '█'

	// DisplaySpace is the block we use for empty cells
	DisplaySpace rune = ' '

	// DisplayCursor is the rune the cursor line is drawn with
	DisplayCursor rune = '│'

	// NumRunes number of runes for sub step bars
	NumRunes = 8
)

var (
	// barRunes[n] fills the lower n eighths of a cell
	barRunes = [NumRunes]rune{
		DisplaySpace,
		'▁',
		'▂',
		'▃',
		'▄',
		'▅',
		'▆',
		'▇',
	}

	styleDefault = tcell.StyleDefault
)

// Display draws the amplitude view in a terminal.
//
// Horizontal units are terminal columns. Vertical units are eighths of a
// row so bar tops can use the partial block runes. Several bars that land in
// the same column are merged by keeping the tallest.
type Display struct {
	screen tcell.Screen

	tops  []float64 // per column top of the filled area
	grads []*Gradient

	cursorCol   int
	cursorColor tcell.Color

	mu         sync.Mutex // guards resizeFunc
	resizeFunc func()
}

// NewDisplay returns a display that will open the terminal on Init.
func NewDisplay() *Display {
	return &Display{cursorCol: -1}
}

// NewDisplayScreen returns a display on an existing, initialized screen.
func NewDisplayScreen(screen tcell.Screen) *Display {
	return &Display{
		screen:    screen,
		cursorCol: -1,
	}
}

// Init sets up the terminal.
func (d *Display) Init() error {
	if d.screen != nil {
		return nil
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "failed to create screen")
	}

	if err = screen.Init(); err != nil {
		return errors.Wrap(err, "failed to init screen")
	}

	screen.DisableMouse()
	screen.HideCursor()
	screen.SetStyle(styleDefault)
	screen.Clear()

	d.screen = screen

	return nil
}

// SetResizeFunc sets a function called from the event poller whenever the
// terminal changes size. It may be called while the poller runs.
func (d *Display) SetResizeFunc(fn func()) {
	d.mu.Lock()
	d.resizeFunc = fn
	d.mu.Unlock()
}

func (d *Display) resized() {
	d.mu.Lock()
	fn := d.resizeFunc
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Start starts the event poller. The returned context is cancelled when the
// user asks to quit.
func (d *Display) Start(ctx context.Context) context.Context {
	dispCtx, dispCancel := context.WithCancel(ctx)
	go eventPoller(dispCtx, dispCancel, d)
	return dispCtx
}

// eventPoller will take events and do things with them
func eventPoller(ctx context.Context, fn context.CancelFunc, d *Display) {
	defer fn()

	events := make(chan tcell.Event)
	quit := make(chan struct{})
	defer close(quit)

	go d.screen.ChannelEvents(events, quit)

	for {
		var ev tcell.Event

		select {
		case <-ctx.Done():
			return
		case ev = <-events:
		}

		if ev == nil {
			return
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyRune:
				switch ev.Rune() {
				case 'q', 'Q':
					return

				default:

				}

			case tcell.KeyCtrlC, tcell.KeyEscape:
				return

			default:

			}

		case *tcell.EventResize:
			d.screen.Sync()
			d.resized()

		default:

		}
	}
}

// Close will stop display and clean up the terminal
func (d *Display) Close() error {
	if d.screen != nil {
		d.screen.Fini()
	}
	return nil
}

// Size returns the width in columns and the height in eighths of a row.
func (d *Display) Size() (int, int) {
	width, height := d.screen.Size()
	return width, height * NumRunes
}

// ClipBounds returns the visible area in display units.
func (d *Display) ClipBounds() image.Rectangle {
	width, height := d.Size()
	if width <= 0 || height <= 0 {
		return image.Rectangle{}
	}

	return image.Rect(0, 0, width, height)
}

// FillRect records a bar. The bar always reaches the bottom of the display;
// only its top edge and horizontal extent matter.
func (d *Display) FillRect(r Rect, g *Gradient) {
	width, height := d.Size()
	if r.Empty() || width <= 0 {
		return
	}

	d.ensureColumns(width)

	top := math.Max(r.Y0, 0)
	if top >= float64(height) {
		return
	}

	first, last := columnSpan(r.X0, r.X1, width)

	for xCol := first; xCol <= last; xCol++ {
		if top < d.tops[xCol] {
			d.tops[xCol] = top
			d.grads[xCol] = g
		}
	}
}

// DrawLine records the cursor line. Only one line is kept per frame. A line
// on the right edge is drawn in the last column.
func (d *Display) DrawLine(x, y0, y1 float64, color tcell.Color) {
	width, _ := d.Size()

	xCol := min(int(math.Floor(x)), width-1)
	if xCol < 0 || y0 >= y1 {
		d.cursorCol = -1
		return
	}

	d.cursorCol = xCol
	d.cursorColor = color
}

// Show draws everything recorded since the last Show and resets the frame.
func (d *Display) Show() {
	width, height := d.Size()
	rows := height / NumRunes

	d.ensureColumns(width)

	for xCol := 0; xCol < width; xCol++ {
		top := d.tops[xCol]
		grad := d.grads[xCol]

		if grad == nil || top >= float64(height) {
			continue
		}

		// eighths are counted from the top of the screen
		filledFrom := int(math.Round(top))

		for xRow := rows - 1; xRow >= 0; xRow-- {
			rowTop := xRow * NumRunes

			fill := (rowTop + NumRunes) - max(filledFrom, rowTop)
			if fill <= 0 {
				break
			}

			r := DisplayBar
			if fill < NumRunes {
				r = barRunes[fill]
			}

			style := styleDefault.Foreground(grad.Color(float64(rowTop) + NumRunes/2))
			d.screen.SetContent(xCol, xRow, r, nil, style)
		}
	}

	if d.cursorCol >= 0 {
		style := styleDefault.Foreground(d.cursorColor)
		for xRow := 0; xRow < rows; xRow++ {
			d.screen.SetContent(d.cursorCol, xRow, DisplayCursor, nil, style)
		}
	}

	d.screen.Show()

	d.screen.Clear()

	d.resetFrame()
}

func (d *Display) ensureColumns(width int) {
	if len(d.tops) == width {
		return
	}

	d.tops = make([]float64, width)
	d.grads = make([]*Gradient, width)
	d.resetFrame()
}

func (d *Display) resetFrame() {
	for idx := range d.tops {
		d.tops[idx] = math.Inf(1)
		d.grads[idx] = nil
	}

	d.cursorCol = -1
}

// columnSpan returns the first and last column touched by [x0, x1).
func columnSpan(x0, x1 float64, width int) (int, int) {
	first := int(math.Floor(x0))
	last := int(math.Ceil(x1)) - 1

	if last < first {
		last = first
	}

	if first < 0 {
		first = 0
	}

	if last >= width {
		last = width - 1
	}

	return first, last
}

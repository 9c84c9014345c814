//go:build cgo

package all

import (
	_ "github.com/csvlt/ampview/input/portaudio"
)

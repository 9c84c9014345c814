// Package all imports all backends implemented by the input package.
package all

import (
	_ "github.com/csvlt/ampview/input/ffmpeg"
	_ "github.com/csvlt/ampview/input/parec"
	_ "github.com/csvlt/ampview/input/pipewire"
	_ "github.com/csvlt/ampview/input/stdinput"
	_ "github.com/csvlt/ampview/input/synth"
	_ "github.com/csvlt/ampview/input/wavfile"
)

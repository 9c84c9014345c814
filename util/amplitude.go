package util

import "iter"

// AmplitudeBuffer is a fixed size circular store of normalized amplitudes.
//
// the buffer is never resized. a write only touches the slot under the
// cursor, and the cursor wraps back to zero after the last slot. readers see
// the slots in index order, not in the order they were written.
type AmplitudeBuffer struct {
	values []int
	cursor int
}

// NewAmplitudeBuffer returns a zeroed buffer holding size values.
// size is forced to at least 1.
func NewAmplitudeBuffer(size int) *AmplitudeBuffer {
	if size < 1 {
		size = 1
	}

	return &AmplitudeBuffer{
		values: make([]int, size),
	}
}

// WriteAt overwrites the slot under the cursor.
func (ab *AmplitudeBuffer) WriteAt(value int) {
	ab.values[ab.cursor] = value
}

// Advance moves the cursor one slot forward, wrapping at the end.
func (ab *AmplitudeBuffer) Advance() {
	ab.cursor++
	ab.cursor %= len(ab.values)
}

// Cursor returns the current write position.
func (ab *AmplitudeBuffer) Cursor() int {
	return ab.cursor
}

// Len returns the capacity of the buffer
func (ab *AmplitudeBuffer) Len() int {
	return len(ab.values)
}

// At returns the value stored in slot idx.
func (ab *AmplitudeBuffer) At(idx int) int {
	return ab.values[idx]
}

// All yields every (index, value) pair in index order. The sequence can be
// ranged over any number of times.
func (ab *AmplitudeBuffer) All() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for idx, value := range ab.values {
			if !yield(idx, value) {
				return
			}
		}
	}
}

// Package timer paces sources that can produce samples faster than real
// time, like files and generators.
package timer

import (
	"context"
	"time"
)

// Window returns how long size frames last at rate frames per second.
func Window(size int, rate float64) time.Duration {
	if rate <= 0 {
		return 0
	}

	return time.Duration(float64(size) / rate * float64(time.Second))
}

// Process calls fn once per window until fn fails or ctx is done. The first
// call happens one window after Process starts, as a live device would
// deliver it.
func Process(ctx context.Context, window time.Duration, fn func() error) error {
	if window <= 0 {
		window = time.Millisecond
	}

	ticker := time.NewTicker(window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if err := fn(); err != nil {
			return err
		}
	}
}

package main

import (
	"testing"
	"time"
)

func TestFlagsToConfig(t *testing.T) {
	cfg := newZeroConfig()
	cfg.backend = "synth"
	cfg.points = 120
	cfg.interval = 50

	c := cfg.ampviewConfig()

	if c.Backend != "synth" || c.Points != 120 {
		t.Fatalf("unexpected config %+v", c)
	}

	if c.Interval != 50*time.Millisecond {
		t.Fatalf("interval = %v, want 50ms", c.Interval)
	}

	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestZeroConfigValid(t *testing.T) {
	cfg := newZeroConfig()
	c := cfg.ampviewConfig()

	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}

	if c.Interval != 30*time.Millisecond || c.Points != 750 {
		t.Fatalf("defaults changed: %+v", c)
	}
}

package ampview

import (
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		valid bool
	}{
		{"defaults", func(*Config) {}, true},
		{"stereo", func(c *Config) { c.ChannelCount = 2 }, true},
		{"no channels", func(c *Config) { c.ChannelCount = 0 }, false},
		{"too many channels", func(c *Config) { c.ChannelCount = 3 }, false},
		{"tiny sample size", func(c *Config) { c.SampleSize = 2 }, false},
		{"rate below size", func(c *Config) { c.SampleRate = 512 }, false},
		{"huge sample size", func(c *Config) {
			c.SampleSize = MaxSampleSize + 1
			c.SampleRate = 1 << 20
		}, false},
		{"no points", func(c *Config) { c.Points = 0 }, false},
		{"too many points", func(c *Config) { c.Points = MaxPoints + 1 }, false},
		{"zero interval", func(c *Config) { c.Interval = 0 }, false},
		{"fast interval", func(c *Config) { c.Interval = time.Millisecond }, true},
	}

	for _, test := range tests {
		cfg := NewZeroConfig()
		test.edit(&cfg)

		err := cfg.Validate()
		if test.valid && err != nil {
			t.Errorf("%s: unexpected error %v", test.name, err)
		}

		if !test.valid && err == nil {
			t.Errorf("%s: expected an error", test.name)
		}
	}
}

func TestZeroConfigDefaults(t *testing.T) {
	cfg := NewZeroConfig()

	if cfg.Points != 750 {
		t.Errorf("points = %d, want 750", cfg.Points)
	}

	if cfg.Interval != 30*time.Millisecond {
		t.Errorf("interval = %v, want 30ms", cfg.Interval)
	}
}

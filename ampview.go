// Package ampview samples the loudness of an audio input at a fixed
// interval and draws it as a scrolling bar chart.
package ampview

import (
	"context"

	"github.com/csvlt/ampview/input"
	"github.com/csvlt/ampview/processor"

	"github.com/pkg/errors"
)

type resizer interface {
	SetResizeFunc(fn func())
}

// Run sets up the pipeline described by cfg and draws until ctx is done or
// the input fails.
func Run(cfg *Config, ctx context.Context) error {
	if cfg.Output == nil {
		return errors.New("no output given")
	}

	name := cfg.Backend
	if name == "" {
		name = input.DefaultBackend()
	}

	backend, err := input.InitBackend(name)
	if err != nil {
		return err
	}
	defer backend.Close()

	sessConfig := input.SessionConfig{
		FrameSize:  cfg.ChannelCount,
		SampleSize: cfg.SampleSize,
		SampleRate: cfg.SampleRate,
	}

	if sessConfig.Device, err = input.GetDevice(backend, cfg.Device); err != nil {
		return err
	}

	rec, err := input.NewRecorder(backend, sessConfig)
	if err != nil {
		return err
	}

	if cfg.SetupFunc != nil {
		if err := cfg.SetupFunc(); err != nil {
			return err
		}
	}

	if cfg.CleanupFunc != nil {
		defer cfg.CleanupFunc()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rec.OnError = func(error) { cancel() }

	loop := processor.NewLoop()

	var view *View

	draw := processor.NewTask(func() {
		if view.Draw(cfg.Output) {
			cfg.Output.Show()
		}
	})

	driver := processor.New(processor.Config{
		Interval: cfg.Interval,
		Points:   cfg.Points,
		Loop:     loop,
		Source:   rec,
		// a queued draw is not queued again, so bursts of ticks draw once
		Redraw: func() { loop.Post(draw) },
	})

	view = NewView(driver)

	if r, ok := cfg.Output.(resizer); ok {
		relayout := processor.NewTask(func() {
			view.Relayout()
			loop.Post(draw)
		})

		r.SetResizeFunc(func() { loop.Post(relayout) })
	}

	// the output may call the resize hook as soon as it starts
	if cfg.StartFunc != nil {
		if ctx, err = cfg.StartFunc(ctx); err != nil {
			return err
		}
	}

	loop.Post(processor.NewTask(driver.Start))
	loop.Post(draw)

	loop.Run(ctx)

	// the loop has returned, so this goroutine owns the driver again
	driver.Stop()

	if err := rec.Err(); err != nil {
		return errors.Wrap(err, "input failed")
	}

	return nil
}

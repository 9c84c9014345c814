package input

import (
	"context"
	"log"
	"sync"

	"github.com/csvlt/ampview/dsp"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Recorder runs a backend session in the background and hands out the
// latest captured window on demand.
//
// Start, Stop, Read and MeanAmplitude never block on the audio device and
// never return errors. Failures are kept in Err and passed to OnError.
type Recorder struct {
	// OnError is called once, from a background goroutine, when the session
	// fails. Nil by default.
	OnError func(error)

	backend Backend
	cfg     SessionConfig

	mu      sync.Mutex // guards capture
	capture [][]Sample // written by the session
	window  [][]Sample // last window copied out by Read
	frames  uint64     // windows delivered by the session

	cancel context.CancelFunc
	group  *errgroup.Group

	errMu sync.Mutex
	err   error
}

// NewRecorder returns a stopped recorder for backend.
func NewRecorder(backend Backend, cfg SessionConfig) (*Recorder, error) {
	if backend == nil {
		return nil, errors.New("no backend given")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid session config")
	}

	return &Recorder{
		backend: backend,
		cfg:     cfg,
		capture: MakeBuffers(cfg),
		window:  MakeBuffers(cfg),
	}, nil
}

// Start opens a session and begins capturing. It does nothing if the
// recorder is already started.
func (r *Recorder) Start() {
	if r.cancel != nil {
		return
	}

	session, err := r.backend.Start(r.cfg)
	if err != nil {
		r.fail(errors.Wrap(err, "failed to start the input backend"))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)

	kick := make(chan bool, 1)

	group.Go(func() error {
		err := session.Start(ctx, r.capture, kick, &r.mu)
		if err != nil && !errors.Is(err, context.Canceled) {
			return errors.Wrap(err, "input session failed")
		}

		// an input that ran out reads as silence from now on
		r.mu.Lock()
		for _, buf := range r.capture {
			clear(buf)
		}
		r.mu.Unlock()

		return nil
	})

	group.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-kick:
				r.mu.Lock()
				r.frames++
				r.mu.Unlock()
			}
		}
	})

	r.cancel = cancel
	r.group = group

	// report failures without waiting for Stop
	go func() {
		<-ctx.Done()
		if err := group.Wait(); err != nil {
			r.fail(err)
		}
	}()
}

// Stop ends the session and waits for it to wind down. It does nothing if
// the recorder is not started.
func (r *Recorder) Stop() {
	if r.cancel == nil {
		return
	}

	r.cancel()

	if err := r.group.Wait(); err != nil {
		r.fail(err)
	}

	r.cancel = nil
	r.group = nil
}

// Read copies the most recent captured window for MeanAmplitude.
func (r *Recorder) Read() {
	r.mu.Lock()
	for idx := range r.capture {
		copy(r.window[idx], r.capture[idx])
	}
	r.mu.Unlock()
}

// MeanAmplitude returns the mean magnitude of the window taken by the last
// Read, on a 16 bit scale.
func (r *Recorder) MeanAmplitude() int {
	return dsp.MeanAmplitude(r.window)
}

// Frames returns how many windows the session has delivered.
func (r *Recorder) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.frames
}

// Err returns the first failure seen by the recorder.
func (r *Recorder) Err() error {
	r.errMu.Lock()
	defer r.errMu.Unlock()

	return r.err
}

func (r *Recorder) fail(err error) {
	r.errMu.Lock()
	first := r.err == nil
	if first {
		r.err = err
	}
	r.errMu.Unlock()

	if !first {
		return
	}

	log.Println(err)

	if r.OnError != nil {
		r.OnError(err)
	}
}

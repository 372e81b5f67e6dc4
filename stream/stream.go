// Package stream runs bandpass engines inside a beep streaming pipeline.
package stream

import (
	"errors"

	"github.com/gopxl/beep"

	"github.com/cwbudde/algo-bandpass/dsp/core"
	"github.com/cwbudde/algo-bandpass/dsp/filter/bandpass"
)

// Errors returned by the constructors.
var (
	ErrNoSource  = errors.New("stream: source streamer is nil")
	ErrNoEngine  = errors.New("stream: need one or two engines")
	ErrNilEngine = errors.New("stream: engine is nil")
)

// Streamer filters a stereo beep stream. With one engine the two channels are
// summed to mono, filtered once and written to both channels; with two
// engines each channel is filtered on its own.
//
// Each Stream call is one processing block, so parameter changes made through
// the engines' setters take effect at the next call.
type Streamer struct {
	src     beep.Streamer
	engines []*bandpass.Engine
	scratch [2][]float64
	err     error
}

// New wraps src with the given engines.
func New(src beep.Streamer, engines ...*bandpass.Engine) (*Streamer, error) {
	if src == nil {
		return nil, ErrNoSource
	}
	if len(engines) < 1 || len(engines) > 2 {
		return nil, ErrNoEngine
	}
	for _, e := range engines {
		if e == nil {
			return nil, ErrNilEngine
		}
	}
	return &Streamer{src: src, engines: engines}, nil
}

// NewForFormat creates one engine per channel of format at its sample rate
// and wraps src with them.
func NewForFormat(src beep.Streamer, format beep.Format, opts ...bandpass.Option) (*Streamer, error) {
	channels := min(max(format.NumChannels, 1), 2)
	opts = append([]bandpass.Option{bandpass.WithSampleRate(float64(format.SampleRate))}, opts...)

	engines := make([]*bandpass.Engine, channels)
	for i := range engines {
		e, err := bandpass.New(opts...)
		if err != nil {
			return nil, err
		}
		engines[i] = e
	}
	return New(src, engines...)
}

// Engines returns the engines in channel order for parameter control.
func (s *Streamer) Engines() []*bandpass.Engine {
	return s.engines
}

// Stream pulls from the source and filters the frames in place. A refresh
// error stops the stream; it is reported by Err.
func (s *Streamer) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}
	n, ok := s.src.Stream(samples)
	if n == 0 {
		return n, ok
	}
	frames := samples[:n]

	if len(s.engines) == 1 {
		mono := s.buffer(0, n)
		for i, f := range frames {
			mono[i] = 0.5 * (f[0] + f[1])
		}
		if err := s.engines[0].ProcessInPlace(mono); err != nil {
			s.err = err
			return 0, false
		}
		for i, v := range mono {
			frames[i] = [2]float64{v, v}
		}
		return n, ok
	}

	for ch, e := range s.engines {
		buf := s.buffer(ch, n)
		for i, f := range frames {
			buf[i] = f[ch]
		}
		if err := e.ProcessInPlace(buf); err != nil {
			s.err = err
			return 0, false
		}
		for i, v := range buf {
			frames[i][ch] = v
		}
	}
	return n, ok
}

// Err returns the first processing error, or the source's error.
func (s *Streamer) Err() error {
	if s.err != nil {
		return s.err
	}
	return s.src.Err()
}

// Reset clears every engine's filter history.
func (s *Streamer) Reset() {
	for _, e := range s.engines {
		e.Reset()
	}
}

func (s *Streamer) buffer(ch, n int) []float64 {
	s.scratch[ch] = core.EnsureLen(s.scratch[ch], n)
	return s.scratch[ch]
}

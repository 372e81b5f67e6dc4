package bandpass

import (
	"math"
	"sync/atomic"
)

// atomicFloat stores a float64 as its bit pattern so a single writer and a
// single reader on different goroutines never observe a torn value.
type atomicFloat struct {
	bits atomic.Uint64
}

func (a *atomicFloat) Load() float64 {
	return math.Float64frombits(a.bits.Load())
}

func (a *atomicFloat) Store(v float64) {
	a.bits.Store(math.Float64bits(v))
}

// Params is a snapshot of the engine's control parameters.
type Params struct {
	SampleRate  float64
	CutoffHz    float64
	BandwidthHz float64
	Gain        float64
}

const (
	defaultCutoffHz    = 1000.0
	defaultBandwidthHz = 1000.0
	defaultGain        = 1.0

	// MinFrequency is the lowest cutoff or bandwidth ClampFrequency returns.
	MinFrequency = 1.0

	// nyquistGuard keeps ClampFrequency strictly below Nyquist, where the
	// bandwidth warping diverges.
	nyquistGuard = 0.999
)

// Limits returns the range ClampFrequency maps cutoff and bandwidth into for
// the given sample rate. Both bounds lie strictly inside (0, sampleRate/2).
func Limits(sampleRate float64) (lo, hi float64) {
	hi = sampleRate / 2 * nyquistGuard
	lo = MinFrequency
	if hi < lo {
		lo = hi / 2
	}
	return lo, hi
}

// ClampFrequency limits a cutoff or bandwidth to Limits(sampleRate). Hosts use
// it before calling the setters; the engine itself never clamps.
func ClampFrequency(freqHz, sampleRate float64) float64 {
	lo, hi := Limits(sampleRate)
	if math.IsNaN(freqHz) {
		return lo
	}
	switch {
	case freqHz < lo:
		return lo
	case freqHz > hi:
		return hi
	default:
		return freqHz
	}
}

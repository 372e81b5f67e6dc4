// Package response measures the magnitude response of a filter from its
// impulse response.
package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-bandpass/dsp/core"
)

// Errors returned by the analyzer.
var (
	ErrInvalidFFTSize    = errors.New("response: FFT size must be a power of two >= 16")
	ErrInvalidSampleRate = errors.New("response: sample rate must be positive")
	ErrEmptyImpulse      = errors.New("response: impulse response is empty")
	ErrNoPeak            = errors.New("response: magnitude response is zero")
)

// ImpulseSource produces an impulse response at a known sample rate.
// *bandpass.Engine satisfies it.
type ImpulseSource interface {
	ImpulseResponse(n int) ([]float64, error)
	SampleRate() float64
}

// Result is a measured magnitude response.
type Result struct {
	SampleRate float64
	BinHz      float64
	Magnitude  []float64 // linear |H| for bins 0..N/2

	PeakHz  float64
	PeakDB  float64
	LowerHz float64 // -3 dB edge below the peak
	UpperHz float64 // -3 dB edge above the peak
}

// BandwidthHz returns the -3 dB bandwidth around the peak.
func (r Result) BandwidthHz() float64 {
	return r.UpperHz - r.LowerHz
}

// MagnitudeDBAt returns the magnitude in dB of the bin nearest freqHz.
func (r Result) MagnitudeDBAt(freqHz float64) float64 {
	if len(r.Magnitude) == 0 || r.BinHz <= 0 {
		return math.Inf(-1)
	}
	bin := int(math.Round(freqHz / r.BinHz))
	bin = max(0, min(bin, len(r.Magnitude)-1))
	return core.LinearToDB(r.Magnitude[bin])
}

// Analyzer measures responses with a fixed FFT size.
type Analyzer struct {
	fftSize int
	plan    *algofft.Plan[complex128]
	in      []complex128
	out     []complex128
	re, im  []float64
}

// NewAnalyzer returns an analyzer using fftSize-point transforms.
func NewAnalyzer(fftSize int) (*Analyzer, error) {
	if fftSize < 16 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, fftSize)
	}
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("response: failed to create FFT plan: %w", err)
	}
	bins := fftSize/2 + 1
	return &Analyzer{
		fftSize: fftSize,
		plan:    plan,
		in:      make([]complex128, fftSize),
		out:     make([]complex128, fftSize),
		re:      make([]float64, bins),
		im:      make([]float64, bins),
	}, nil
}

// FFTSize returns the transform length.
func (a *Analyzer) FFTSize() int { return a.fftSize }

// Measure takes an FFTSize-long impulse response from src and analyses it.
func (a *Analyzer) Measure(src ImpulseSource) (Result, error) {
	ir, err := src.ImpulseResponse(a.fftSize)
	if err != nil {
		return Result{}, err
	}
	return a.Analyze(ir, src.SampleRate())
}

// Analyze computes the magnitude response of ir. Longer responses are
// truncated to FFTSize, shorter ones zero padded.
func (a *Analyzer) Analyze(ir []float64, sampleRate float64) (Result, error) {
	if len(ir) == 0 {
		return Result{}, ErrEmptyImpulse
	}
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return Result{}, ErrInvalidSampleRate
	}

	clear(a.in)
	for i, v := range ir[:min(len(ir), a.fftSize)] {
		a.in[i] = complex(v, 0)
	}
	if err := a.plan.Forward(a.out, a.in); err != nil {
		return Result{}, fmt.Errorf("response: forward FFT failed: %w", err)
	}

	for k := range a.re {
		a.re[k] = real(a.out[k])
		a.im[k] = imag(a.out[k])
	}
	mag := make([]float64, len(a.re))
	vecmath.Magnitude(mag, a.re, a.im)

	res := Result{
		SampleRate: sampleRate,
		BinHz:      sampleRate / float64(a.fftSize),
		Magnitude:  mag,
	}

	peak := argMax(mag)
	if mag[peak] == 0 {
		return res, ErrNoPeak
	}
	res.PeakHz = float64(peak) * res.BinHz
	res.PeakDB = core.LinearToDB(mag[peak])

	edge := mag[peak] / math.Sqrt2
	res.LowerHz = a.edge(mag, peak, -1, edge) * res.BinHz
	res.UpperHz = a.edge(mag, peak, 1, edge) * res.BinHz
	return res, nil
}

// edge walks from peak in direction dir until the magnitude drops below
// level and returns the interpolated fractional bin.
func (a *Analyzer) edge(mag []float64, peak, dir int, level float64) float64 {
	prev := peak
	for k := peak + dir; k >= 0 && k < len(mag); k += dir {
		if mag[k] < level {
			t := (mag[prev] - level) / (mag[prev] - mag[k])
			return float64(prev) + t*float64(dir)
		}
		prev = k
	}
	return float64(prev)
}

func argMax(x []float64) int {
	best := 0
	for i, v := range x {
		if v > x[best] {
			best = i
		}
	}
	return best
}

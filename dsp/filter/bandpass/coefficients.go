package bandpass

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-bandpass/dsp/core"
)

const (
	// Order is the order of the allpass section.
	Order = 2
	// Taps is the number of coefficients per polynomial and the capacity of
	// each delay line.
	Taps = Order + 1
)

// Coefficients holds the allpass transfer function
//
//	A(z) = (B[0] + B[1]z⁻¹ + B[2]z⁻²) / (A[0] + A[1]z⁻¹ + A[2]z⁻²)
//
// with A[0] normalized to 1. For the allpass section B is A reversed.
type Coefficients struct {
	A [Taps]float64 // feedback (denominator)
	B [Taps]float64 // feedforward (numerator)
}

// Design derives allpass coefficients for a bandpass centred on cutoffHz with
// the given bandwidth, using the bilinear-transform warping
//
//	t = tan(π·bandwidth/fs), c = (t−1)/(t+1), d = −cos(2π·cutoff/fs)
//	A = [1, d(1−c), −c], B = [−c, d(1−c), 1]
//
// The result is a pure function of its inputs.
func Design(cutoffHz, bandwidthHz, sampleRate float64) (Coefficients, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return Coefficients{}, fmt.Errorf("%w: bandpass sample rate must be > 0 and finite: %f", core.ErrInvalidState, sampleRate)
	}

	nyquist := sampleRate / 2
	if !core.IsFinite(cutoffHz) || cutoffHz <= 0 || cutoffHz >= nyquist {
		return Coefficients{}, fmt.Errorf("%w: bandpass cutoff must be in (0, %g): %f", core.ErrInvalidArgument, nyquist, cutoffHz)
	}
	if !core.IsFinite(bandwidthHz) || bandwidthHz <= 0 {
		return Coefficients{}, fmt.Errorf("%w: bandpass bandwidth must be > 0 and finite: %f", core.ErrInvalidArgument, bandwidthHz)
	}
	if bandwidthHz >= nyquist {
		return Coefficients{}, fmt.Errorf("%w: bandpass bandwidth must be < %g: %f", core.ErrNumericDegeneracy, nyquist, bandwidthHz)
	}

	warped := math.Tan(math.Pi * bandwidthHz / sampleRate)
	if warped+1 == 0 {
		return Coefficients{}, fmt.Errorf("%w: bandwidth warping undefined at %f Hz", core.ErrNumericDegeneracy, bandwidthHz)
	}
	c := (warped - 1) / (warped + 1)
	d := -math.Cos(2 * math.Pi * cutoffHz / sampleRate)

	coeffs := Coefficients{
		A: [Taps]float64{1, d * (1 - c), -c},
		B: [Taps]float64{-c, d * (1 - c), 1},
	}
	for i := range Taps {
		if !core.IsFinite(coeffs.A[i]) || !core.IsFinite(coeffs.B[i]) {
			return Coefficients{}, fmt.Errorf("%w: non-finite coefficient for cutoff %f, bandwidth %f", core.ErrNumericDegeneracy, cutoffHz, bandwidthHz)
		}
	}
	return coeffs, nil
}

// Allpass evaluates A(e^jw) at freqHz.
func (c *Coefficients) Allpass(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	var num, den complex128
	for k := range Taps {
		zk := cmplx.Exp(complex(0, -w*float64(k)))
		num += complex(c.B[k], 0) * zk
		den += complex(c.A[k], 0) * zk
	}
	return num / den
}

// Response evaluates the bandpass response H(e^jw) = ½(1 − A(e^jw)) at freqHz,
// excluding output gain.
func (c *Coefficients) Response(freqHz, sampleRate float64) complex128 {
	return 0.5 * (1 - c.Allpass(freqHz, sampleRate))
}

// MagnitudeDB returns 20·log10|H(f)|.
func (c *Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return core.LinearToDB(cmplx.Abs(c.Response(freqHz, sampleRate)))
}

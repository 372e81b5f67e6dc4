// Package signal generates deterministic excitation signals for driving and
// auditioning filters.
package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-bandpass/dsp/core"
)

// Generator creates deterministic signals at a configured sample rate.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a generator from processor options and signal options.
func NewGenerator(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Sine generates a sine wave starting at phase 0.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if freqHz < 0 || freqHz >= g.cfg.Nyquist() {
		return nil, fmt.Errorf("sine frequency must be in [0, %g): %f", g.cfg.Nyquist(), freqHz)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Impulse generates a unit-height impulse at position pos.
func (g *Generator) Impulse(samples, pos int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("impulse samples must be > 0: %d", samples)
	}
	if pos < 0 || pos >= samples {
		return nil, fmt.Errorf("impulse position must be in [0, %d): %d", samples, pos)
	}
	out := make([]float64, samples)
	out[pos] = 1
	return out, nil
}

// LogSweep generates an exponential sine sweep from startHz to endHz.
func (g *Generator) LogSweep(startHz, endHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sweep samples must be > 0: %d", samples)
	}
	if startHz <= 0 || endHz <= startHz || endHz >= g.cfg.Nyquist() {
		return nil, fmt.Errorf("sweep range must satisfy 0 < start < end < %g: %f..%f", g.cfg.Nyquist(), startHz, endHz)
	}
	out := make([]float64, samples)
	duration := float64(samples) / g.cfg.SampleRate
	k := math.Log(endHz / startHz)
	for i := range out {
		t := float64(i) / g.cfg.SampleRate
		phase := 2 * math.Pi * startHz * duration / k * (math.Exp(t/duration*k) - 1)
		out[i] = amplitude * math.Sin(phase)
	}
	return out, nil
}

// Normalize scales data in place to the target peak amplitude and returns
// the applied scale. Silent input is left untouched.
func Normalize(data []float64, targetPeak float64) (float64, error) {
	if targetPeak < 0 {
		return 0, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return 0, fmt.Errorf("normalize input must not be empty")
	}

	peak := vecmath.MaxAbs(data)
	if peak == 0 {
		return 1, nil
	}
	scale := targetPeak / peak
	vecmath.ScaleBlockInPlace(data, scale)
	return scale, nil
}

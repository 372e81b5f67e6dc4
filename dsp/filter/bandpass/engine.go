package bandpass

import (
	"fmt"

	"github.com/cwbudde/algo-bandpass/dsp/core"
	"github.com/cwbudde/algo-bandpass/dsp/delay"
	"github.com/cwbudde/algo-vecmath"
)

// Engine is a single-channel allpass-derived bandpass filter.
//
// SetSampleRate, SetCutoff, SetBandwidth and SetGain may be called from any
// goroutine. Refresh, ProcessBlock, ProcessInPlace, Reset and ImpulseResponse
// belong to one processing goroutine.
type Engine struct {
	sampleRate atomicFloat
	cutoff     atomicFloat
	bandwidth  atomicFloat
	gain       atomicFloat

	coeffs    Coefficients
	blockGain float64

	feedForward *delay.Line
	feedback    *delay.Line
}

// New creates an engine with cutoff and bandwidth of 1 kHz and unity gain.
// Without WithSampleRate the engine refuses to process until SetSampleRate
// is called.
func New(opts ...Option) (*Engine, error) {
	p := Params{
		CutoffHz:    defaultCutoffHz,
		BandwidthHz: defaultBandwidthHz,
		Gain:        defaultGain,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&p); err != nil {
			return nil, err
		}
	}

	ff, err := delay.New(Taps)
	if err != nil {
		return nil, err
	}
	fb, err := delay.New(Taps)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		feedForward: ff,
		feedback:    fb,
		blockGain:   p.Gain,
	}
	e.SetParams(p)

	if p.SampleRate > 0 {
		if err := e.Refresh(); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// SetSampleRate sets the processing sample rate in Hz.
func (e *Engine) SetSampleRate(sampleRate float64) error {
	if err := validateSampleRate(sampleRate); err != nil {
		return err
	}
	e.sampleRate.Store(sampleRate)
	return nil
}

// SetCutoff stores the cutoff frequency in Hz. It takes effect at the next
// block.
func (e *Engine) SetCutoff(cutoffHz float64) { e.cutoff.Store(cutoffHz) }

// SetBandwidth stores the bandwidth in Hz. It takes effect at the next block.
func (e *Engine) SetBandwidth(bandwidthHz float64) { e.bandwidth.Store(bandwidthHz) }

// SetGain stores the linear output gain. It takes effect at the next block.
func (e *Engine) SetGain(gain float64) { e.gain.Store(gain) }

// SetParams stores all control parameters. A non-positive SampleRate leaves
// the current sample rate unchanged.
func (e *Engine) SetParams(p Params) {
	if p.SampleRate > 0 {
		e.sampleRate.Store(p.SampleRate)
	}
	e.cutoff.Store(p.CutoffHz)
	e.bandwidth.Store(p.BandwidthHz)
	e.gain.Store(p.Gain)
}

// SampleRate returns the sample rate in Hz, or 0 if none was set.
func (e *Engine) SampleRate() float64 { return e.sampleRate.Load() }

// Cutoff returns the stored cutoff frequency in Hz.
func (e *Engine) Cutoff() float64 { return e.cutoff.Load() }

// Bandwidth returns the stored bandwidth in Hz.
func (e *Engine) Bandwidth() float64 { return e.bandwidth.Load() }

// Gain returns the stored linear output gain.
func (e *Engine) Gain() float64 { return e.gain.Load() }

// Params returns a snapshot of the control parameters.
func (e *Engine) Params() Params {
	return Params{
		SampleRate:  e.sampleRate.Load(),
		CutoffHz:    e.cutoff.Load(),
		BandwidthHz: e.bandwidth.Load(),
		Gain:        e.gain.Load(),
	}
}

// Coefficients returns the coefficient set of the last successful Refresh.
func (e *Engine) Coefficients() Coefficients { return e.coeffs }

// Refresh snapshots the control parameters and rederives the coefficients.
// On error the previous coefficients and gain stay in effect.
func (e *Engine) Refresh() error {
	p := e.Params()
	if p.SampleRate <= 0 {
		return fmt.Errorf("%w: bandpass sample rate not set", core.ErrInvalidState)
	}
	if err := validateGain(p.Gain); err != nil {
		return err
	}
	coeffs, err := Design(p.CutoffHz, p.BandwidthHz, p.SampleRate)
	if err != nil {
		return err
	}
	e.coeffs = coeffs
	e.blockGain = p.Gain
	return nil
}

// ProcessBlock refreshes the coefficients once and filters src into dst.
// dst and src must have the same length and may alias. If the refresh fails
// dst is left untouched.
func (e *Engine) ProcessBlock(dst, src []float64) error {
	if !core.SameLen(dst, src) {
		return fmt.Errorf("%w: bandpass block length mismatch: dst %d, src %d", core.ErrInvalidArgument, len(dst), len(src))
	}
	if err := e.Refresh(); err != nil {
		return err
	}
	for i, x := range src {
		dst[i] = e.bandpass(x)
	}
	vecmath.ScaleBlockInPlace(dst, e.blockGain)
	return nil
}

// ProcessInPlace filters buf in place as one block.
func (e *Engine) ProcessInPlace(buf []float64) error {
	return e.ProcessBlock(buf, buf)
}

// processSample filters one sample with the current coefficients and gain.
// Callers refresh first.
func (e *Engine) processSample(x float64) float64 {
	return e.bandpass(x) * e.blockGain
}

// Reset clears the filter history. Parameters and coefficients are kept.
func (e *Engine) Reset() {
	e.feedForward.Reset()
	e.feedback.Reset()
}

// ImpulseResponse refreshes the coefficients and returns n samples of the
// impulse response including gain. The filter history is saved and restored.
func (e *Engine) ImpulseResponse(n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: impulse response length must be > 0: %d", core.ErrInvalidArgument, n)
	}
	if err := e.Refresh(); err != nil {
		return nil, err
	}

	ffHist, ffCursor := e.feedForward.State()
	fbHist, fbCursor := e.feedback.State()
	e.Reset()

	ir := make([]float64, n)
	ir[0] = e.processSample(1)
	for i := 1; i < n; i++ {
		ir[i] = e.processSample(0)
	}

	if err := e.feedForward.SetState(ffHist, ffCursor); err != nil {
		return nil, err
	}
	if err := e.feedback.SetState(fbHist, fbCursor); err != nil {
		return nil, err
	}
	return ir, nil
}

// bandpass runs one step of the difference equation and returns the
// un-scaled bandpass output.
func (e *Engine) bandpass(x float64) float64 {
	e.feedForward.Write(x)
	ap := e.allpass()
	y := 0.5 * (x - ap)
	e.feedback.Write(ap)
	e.feedForward.Advance()
	e.feedback.Advance()
	return y
}

// allpass evaluates
//
//	ap = Σ_{i=0}^{Order} B[i]·ff[i] − Σ_{i=1}^{Order} A[i]·fb[i]
//
// Tap 0 of the feedback line has not been written for this sample and is
// excluded.
func (e *Engine) allpass() float64 {
	out := e.coeffs.B[0] * e.feedForward.Tap(0)
	for i := 1; i < Taps; i++ {
		out += e.coeffs.B[i]*e.feedForward.Tap(i) - e.coeffs.A[i]*e.feedback.Tap(i)
	}
	return out
}

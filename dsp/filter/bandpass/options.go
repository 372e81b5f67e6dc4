package bandpass

import (
	"fmt"

	"github.com/cwbudde/algo-bandpass/dsp/core"
)

// Option mutates engine construction parameters.
type Option func(*Params) error

// WithSampleRate sets the initial sample rate in Hz.
func WithSampleRate(sampleRate float64) Option {
	return func(p *Params) error {
		if err := validateSampleRate(sampleRate); err != nil {
			return err
		}
		p.SampleRate = sampleRate
		return nil
	}
}

// WithCutoff sets the initial cutoff (centre) frequency in Hz.
func WithCutoff(cutoffHz float64) Option {
	return func(p *Params) error {
		if cutoffHz <= 0 || !core.IsFinite(cutoffHz) {
			return fmt.Errorf("%w: bandpass cutoff must be > 0 and finite: %f", core.ErrInvalidArgument, cutoffHz)
		}
		p.CutoffHz = cutoffHz
		return nil
	}
}

// WithBandwidth sets the initial bandwidth in Hz.
func WithBandwidth(bandwidthHz float64) Option {
	return func(p *Params) error {
		if bandwidthHz <= 0 || !core.IsFinite(bandwidthHz) {
			return fmt.Errorf("%w: bandpass bandwidth must be > 0 and finite: %f", core.ErrInvalidArgument, bandwidthHz)
		}
		p.BandwidthHz = bandwidthHz
		return nil
	}
}

// WithGain sets the initial linear output gain.
func WithGain(gain float64) Option {
	return func(p *Params) error {
		if err := validateGain(gain); err != nil {
			return err
		}
		p.Gain = gain
		return nil
	}
}

func validateSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("%w: bandpass sample rate must be > 0 and finite: %f", core.ErrInvalidArgument, sampleRate)
	}
	return nil
}

func validateGain(gain float64) error {
	if gain < 0 || !core.IsFinite(gain) {
		return fmt.Errorf("%w: bandpass gain must be >= 0 and finite: %f", core.ErrInvalidArgument, gain)
	}
	return nil
}

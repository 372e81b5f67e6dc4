package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-bandpass/dsp/core"
	"github.com/cwbudde/algo-bandpass/dsp/filter/bandpass"
	"github.com/cwbudde/algo-bandpass/dsp/signal"
	"github.com/cwbudde/algo-bandpass/measure/response"
	"github.com/cwbudde/algo-bandpass/wavio"
)

const (
	analyzeFFTSize = 8192
	signalLevel    = 0.5
	sweepStartHz   = 20.0
)

var (
	errNoWork        = errors.New("bandpass: nothing to do, set -out or -analyze")
	errUnknownSignal = errors.New("bandpass: unknown signal")
)

type config struct {
	in, out   string
	cutoff    float64
	bandwidth float64
	gainDB    float64
	block     int
	sweepTo   float64
	signal    string
	tone      float64
	normalize float64
	duration  float64
	rate      int
	bitDepth  int
	analyze   bool
}

func run(cfg config, stdout io.Writer, logger *slog.Logger) error {
	if cfg.block <= 0 {
		return fmt.Errorf("%w: block size %d", core.ErrInvalidArgument, cfg.block)
	}

	clip, err := loadInput(cfg, logger)
	if err != nil {
		return err
	}
	fs := float64(clip.SampleRate)
	proc := core.ApplyProcessorOptions(core.WithSampleRate(fs), core.WithBlockSize(cfg.block))

	params := bandpass.Params{
		SampleRate:  fs,
		CutoffHz:    bandpass.ClampFrequency(cfg.cutoff, fs),
		BandwidthHz: bandpass.ClampFrequency(cfg.bandwidth, fs),
		Gain:        core.DBToLinear(cfg.gainDB),
	}
	if params.CutoffHz != cfg.cutoff || params.BandwidthHz != cfg.bandwidth {
		logger.Warn("parameters clamped", "cutoff", params.CutoffHz, "bandwidth", params.BandwidthHz)
	}

	if cfg.analyze {
		if err := report(stdout, params); err != nil {
			return err
		}
	}
	if cfg.out == "" {
		if cfg.analyze {
			return nil
		}
		if cfg.in == "" {
			return errNoWork
		}
	}

	engines := make([]*bandpass.Engine, len(clip.Channels))
	for ch := range engines {
		e, err := bandpass.New(
			bandpass.WithSampleRate(params.SampleRate),
			bandpass.WithCutoff(params.CutoffHz),
			bandpass.WithBandwidth(params.BandwidthHz),
			bandpass.WithGain(params.Gain),
		)
		if err != nil {
			return fmt.Errorf("channel %d: %w", ch, err)
		}
		engines[ch] = e
	}

	if err := filterClip(clip, engines, proc, params.CutoffHz, cfg.sweepTo, logger); err != nil {
		return err
	}

	if cfg.normalize > 0 {
		if err := normalizeClip(clip, cfg.normalize, logger); err != nil {
			return err
		}
	}

	for ch, data := range clip.Channels {
		peak := vecmath.MaxAbs(data)
		fmt.Fprintf(stdout, "channel %d: peak %.2f dBFS\n", ch, core.LinearToDB(peak))
	}

	if cfg.out == "" {
		return nil
	}
	return saveOutput(cfg.out, clip, logger)
}

// filterClip processes every channel in host-sized blocks. With a sweep
// target the cutoff moves geometrically from startHz to sweepTo, one step per
// block, through the same setter a host control thread would call.
func filterClip(clip *wavio.Clip, engines []*bandpass.Engine, proc core.ProcessorConfig, startHz, sweepTo float64, logger *slog.Logger) error {
	frames := clip.Frames()
	blocks := proc.Blocks(frames)
	sweep := sweepTo > 0 && blocks > 1
	if sweep {
		sweepTo = bandpass.ClampFrequency(sweepTo, proc.SampleRate)
	}

	for b := range blocks {
		start := b * proc.BlockSize
		end := min(start+proc.BlockSize, frames)

		if sweep {
			t := float64(b) / float64(blocks-1)
			fc := startHz * math.Pow(sweepTo/startHz, t)
			for _, e := range engines {
				e.SetCutoff(fc)
			}
			if b%64 == 0 {
				logger.Debug("sweep", "block", b, "cutoff", fc)
			}
		}

		for ch, e := range engines {
			data := clip.Channels[ch][start:end]
			if err := e.ProcessInPlace(data); err != nil {
				return fmt.Errorf("channel %d block %d: %w", ch, b, err)
			}
		}
	}
	logger.Debug("filtered", "frames", frames, "blocks", blocks, "channels", len(engines))
	return nil
}

func loadInput(cfg config, logger *slog.Logger) (*wavio.Clip, error) {
	if cfg.in != "" {
		f, err := os.Open(cfg.in)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		clip, err := wavio.Read(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.in, err)
		}
		logger.Info("loaded input", "file", cfg.in, "rate", clip.SampleRate,
			"bits", clip.BitDepth, "channels", len(clip.Channels), "frames", clip.Frames())
		return clip, nil
	}

	if cfg.rate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", core.ErrInvalidArgument, cfg.rate)
	}
	frames := int(math.Round(cfg.duration * float64(cfg.rate)))
	gen := signal.NewGenerator([]core.ProcessorOption{core.WithSampleRate(float64(cfg.rate))})

	var (
		data []float64
		err  error
	)
	switch cfg.signal {
	case "sine", "":
		data, err = gen.Sine(cfg.tone, signalLevel, frames)
	case "noise":
		data, err = gen.WhiteNoise(signalLevel, frames)
	case "sweep":
		_, hi := bandpass.Limits(float64(cfg.rate))
		data, err = gen.LogSweep(sweepStartHz, hi, signalLevel, frames)
	case "impulse":
		data, err = gen.Impulse(frames, 0)
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownSignal, cfg.signal)
	}
	if err != nil {
		return nil, fmt.Errorf("generate input: %w", err)
	}
	logger.Info("generated input", "signal", cfg.signal, "rate", cfg.rate, "frames", frames)

	return &wavio.Clip{SampleRate: cfg.rate, BitDepth: cfg.bitDepth, Channels: [][]float64{data}}, nil
}

// normalizeClip scales all channels by the same factor so the loudest one
// peaks at target.
func normalizeClip(clip *wavio.Clip, target float64, logger *slog.Logger) error {
	peak := 0.0
	for _, data := range clip.Channels {
		peak = max(peak, vecmath.MaxAbs(data))
	}
	if peak == 0 {
		return nil
	}
	for ch, data := range clip.Channels {
		if _, err := signal.Normalize(data, target*vecmath.MaxAbs(data)/peak); err != nil {
			return fmt.Errorf("channel %d: %w", ch, err)
		}
	}
	logger.Debug("normalized", "peak", peak, "target", target)
	return nil
}

func saveOutput(path string, clip *wavio.Clip, logger *slog.Logger) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := wavio.Write(f, clip); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("wrote output", "file", path, "frames", clip.Frames())
	return nil
}

func report(w io.Writer, p bandpass.Params) error {
	e, err := bandpass.New(
		bandpass.WithSampleRate(p.SampleRate),
		bandpass.WithCutoff(p.CutoffHz),
		bandpass.WithBandwidth(p.BandwidthHz),
		bandpass.WithGain(p.Gain),
	)
	if err != nil {
		return err
	}
	a, err := response.NewAnalyzer(analyzeFFTSize)
	if err != nil {
		return err
	}
	res, err := a.Measure(e)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	fmt.Fprintf(w, "cutoff     %10.2f Hz\n", p.CutoffHz)
	fmt.Fprintf(w, "bandwidth  %10.2f Hz\n", p.BandwidthHz)
	fmt.Fprintf(w, "peak       %10.2f Hz  %6.2f dB\n", res.PeakHz, res.PeakDB)
	fmt.Fprintf(w, "-3 dB band %10.2f .. %.2f Hz (%.2f Hz)\n", res.LowerHz, res.UpperHz, res.BandwidthHz())
	return nil
}

// Command bandpass runs the allpass bandpass filter over a WAV file or a
// generated test signal, block by block, the way an audio host would.
//
// Usage:
//
//	bandpass [flags]
//
// Examples:
//
//	bandpass -in voice.wav -out voice-bp.wav -cutoff 1200 -bandwidth 400
//	bandpass -in drums.wav -out sweep.wav -cutoff 200 -sweep-to 8000
//	bandpass -signal noise -duration 2 -out noise-bp.wav -cutoff 3000 -normalize 0.9
//	bandpass -signal impulse -duration 0.1 -out ir.wav -cutoff 500 -bandwidth 100
//	bandpass -analyze -cutoff 5000 -bandwidth 500 -rate 48000
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
)

func main() {
	var cfg config
	flag.StringVar(&cfg.in, "in", "", "input WAV file (default: generated signal)")
	flag.StringVar(&cfg.out, "out", "", "output WAV file (default: no output, only a level report)")
	flag.Float64Var(&cfg.cutoff, "cutoff", 1000, "center frequency in Hz")
	flag.Float64Var(&cfg.bandwidth, "bandwidth", 1000, "bandwidth in Hz")
	flag.Float64Var(&cfg.gainDB, "gain-db", 0, "output gain in dB")
	flag.IntVar(&cfg.block, "block", 512, "block size in samples")
	flag.Float64Var(&cfg.sweepTo, "sweep-to", 0, "sweep the cutoff logarithmically to this frequency over the signal")
	flag.StringVar(&cfg.signal, "signal", "sine", "generated signal when -in is empty: sine, noise, sweep or impulse")
	flag.Float64Var(&cfg.tone, "tone", 440, "frequency of the generated sine")
	flag.Float64Var(&cfg.normalize, "normalize", 0, "scale the output to this peak (linear, 0 keeps the filtered level)")
	flag.Float64Var(&cfg.duration, "duration", 1, "length of the generated signal in seconds")
	flag.IntVar(&cfg.rate, "rate", 44100, "sample rate of the generated signal")
	flag.IntVar(&cfg.bitDepth, "bits", 16, "output bit depth for generated signals (16, 24 or 32)")
	flag.BoolVar(&cfg.analyze, "analyze", false, "print the measured magnitude response of the initial settings")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bandpass [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Filters a WAV file or a generated signal with a second-order allpass bandpass.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  bandpass -in voice.wav -out voice-bp.wav -cutoff 1200 -bandwidth 400\n")
		fmt.Fprintf(os.Stderr, "  bandpass -in drums.wav -out sweep.wav -cutoff 200 -sweep-to 8000\n")
		fmt.Fprintf(os.Stderr, "  bandpass -analyze -cutoff 5000 -bandwidth 500 -rate 48000\n")
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(cfg, os.Stdout, logger); err != nil {
		logger.Error("bandpass failed", "err", err)
		os.Exit(1)
	}
}

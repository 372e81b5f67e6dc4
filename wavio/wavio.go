// Package wavio decodes and encodes PCM WAV files as per-channel float64
// sample slices in [-1, 1].
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Errors returned by Read and Write.
var (
	ErrNotWAV            = errors.New("wavio: not a valid WAV file")
	ErrUnsupportedFormat = errors.New("wavio: only integer PCM is supported")
	ErrUnsupportedDepth  = errors.New("wavio: bit depth must be 16, 24 or 32")
	ErrEmptyClip         = errors.New("wavio: clip has no channels")
	ErrRaggedChannels    = errors.New("wavio: channels differ in length")
)

const wavFormatPCM = 1

// Clip is de-interleaved audio.
type Clip struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float64
}

// NewClip allocates a silent clip.
func NewClip(sampleRate, bitDepth, channels, frames int) *Clip {
	c := &Clip{SampleRate: sampleRate, BitDepth: bitDepth, Channels: make([][]float64, channels)}
	for i := range c.Channels {
		c.Channels[i] = make([]float64, frames)
	}
	return c
}

// Frames returns the number of samples per channel.
func (c *Clip) Frames() int {
	if len(c.Channels) == 0 {
		return 0
	}
	return len(c.Channels[0])
}

// Read decodes a whole WAV stream.
func Read(r io.ReadSeeker) (*Clip, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, ErrNotWAV
	}
	if d.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedFormat, d.WavAudioFormat)
	}
	depth := int(d.BitDepth)
	if err := validateDepth(depth); err != nil {
		return nil, err
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wavio: decode PCM: %w", err)
	}

	nch := buf.Format.NumChannels
	if nch <= 0 {
		return nil, ErrEmptyClip
	}
	clip := NewClip(buf.Format.SampleRate, depth, nch, len(buf.Data)/nch)
	scale := 1 / float64(int64(1)<<(depth-1))
	for i, v := range buf.Data[:clip.Frames()*nch] {
		clip.Channels[i%nch][i/nch] = float64(v) * scale
	}
	return clip, nil
}

// Write encodes clip as integer PCM. Samples outside [-1, 1] are clipped.
func Write(w io.WriteSeeker, clip *Clip) error {
	if len(clip.Channels) == 0 {
		return ErrEmptyClip
	}
	if err := validateDepth(clip.BitDepth); err != nil {
		return err
	}
	frames := clip.Frames()
	for _, ch := range clip.Channels {
		if len(ch) != frames {
			return ErrRaggedChannels
		}
	}

	nch := len(clip.Channels)
	peak := float64(int64(1)<<(clip.BitDepth-1) - 1)
	data := make([]int, frames*nch)
	for i := range data {
		v := clip.Channels[i%nch][i/nch]
		v = math.Max(-1, math.Min(1, v))
		data[i] = int(math.Round(v * peak))
	}

	enc := wav.NewEncoder(w, clip.SampleRate, clip.BitDepth, nch, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: nch, SampleRate: clip.SampleRate},
		Data:           data,
		SourceBitDepth: clip.BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavio: encode PCM: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavio: finalize: %w", err)
	}
	return nil
}

func validateDepth(depth int) error {
	switch depth {
	case 16, 24, 32:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedDepth, depth)
	}
}

// Package delay provides the fixed-capacity circular history buffer used by
// recursive filters to read past input and output samples.
package delay

import (
	"fmt"

	"github.com/cwbudde/algo-bandpass/dsp/core"
)

// Line is a circular delay line with separate write, read and advance steps.
//
// Write stores a sample at the cursor without moving it, so a caller can write
// once and then read any number of taps against the same index set before
// calling Advance. Tap k is the sample written k steps ago; tap 0 is the one at
// the cursor.
type Line struct {
	history []float64
	cursor  int
}

// New returns a zeroed delay line holding capacity taps.
func New(capacity int) (*Line, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: delay capacity must be >= 1: %d", core.ErrInvalidArgument, capacity)
	}
	return &Line{
		history: make([]float64, capacity),
		cursor:  capacity - 1,
	}, nil
}

// Len returns the number of readable taps.
func (d *Line) Len() int {
	return len(d.history)
}

// Write overwrites the sample at the cursor.
func (d *Line) Write(sample float64) {
	d.history[d.cursor] = sample
}

// Read returns the sample written tap steps ago.
func (d *Line) Read(tap int) (float64, error) {
	if tap < 0 || tap >= len(d.history) {
		return 0, fmt.Errorf("%w: tap %d not in [0, %d)", core.ErrOutOfRange, tap, len(d.history))
	}
	return d.history[d.offset(tap)], nil
}

// Tap is the unchecked form of Read for hot loops whose taps are known to lie
// in [0, Len()).
func (d *Line) Tap(tap int) float64 {
	return d.history[d.offset(tap)]
}

// Advance moves the cursor one slot forward. Call it exactly once per
// processed sample, after every read and write for that sample.
func (d *Line) Advance() {
	d.cursor++
	if d.cursor == len(d.history) {
		d.cursor = 0
	}
}

// Reset clears the history and returns the cursor to its initial slot.
func (d *Line) Reset() {
	core.Zero(d.history)
	d.cursor = len(d.history) - 1
}

// Snapshot copies taps 0..Len()-1, most recent first, into dst and returns it.
func (d *Line) Snapshot(dst []float64) []float64 {
	dst = core.EnsureLen(dst, len(d.history))
	for k := range dst {
		dst[k] = d.Tap(k)
	}
	return dst
}

// State returns a copy of the raw history and the cursor position.
func (d *Line) State() ([]float64, int) {
	return append([]float64(nil), d.history...), d.cursor
}

// SetState restores history previously captured with State. The history
// length must match Len.
func (d *Line) SetState(history []float64, cursor int) error {
	if len(history) != len(d.history) {
		return fmt.Errorf("%w: state length %d, want %d", core.ErrInvalidArgument, len(history), len(d.history))
	}
	if cursor < 0 || cursor >= len(d.history) {
		return fmt.Errorf("%w: cursor %d not in [0, %d)", core.ErrOutOfRange, cursor, len(d.history))
	}
	copy(d.history, history)
	d.cursor = cursor
	return nil
}

func (d *Line) offset(tap int) int {
	size := len(d.history)
	return (d.cursor - tap + size) % size
}

package delay

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-bandpass/dsp/core"
)

// --- construction and validation ---

func TestNewValidation(t *testing.T) {
	for _, capacity := range []int{0, -1, -64} {
		if _, err := New(capacity); !errors.Is(err, core.ErrInvalidArgument) {
			t.Fatalf("New(%d): got %v, want ErrInvalidArgument", capacity, err)
		}
	}
}

func TestNewStartsZeroed(t *testing.T) {
	for capacity := 1; capacity <= 9; capacity++ {
		d, err := New(capacity)
		if err != nil {
			t.Fatal(err)
		}
		if d.Len() != capacity {
			t.Fatalf("Len: got %d want %d", d.Len(), capacity)
		}
		if d.cursor != capacity-1 {
			t.Fatalf("cursor: got %d want %d", d.cursor, capacity-1)
		}
		for k := 0; k < capacity; k++ {
			got, err := d.Read(k)
			if err != nil {
				t.Fatal(err)
			}
			if got != 0 {
				t.Fatalf("capacity %d Read(%d): got %v want 0", capacity, k, got)
			}
		}
	}
}

// --- read/write/advance ---

func TestReadOutOfRange(t *testing.T) {
	d, err := New(3)
	if err != nil {
		t.Fatal(err)
	}
	for _, tap := range []int{-1, 3, 4, 100} {
		if _, err := d.Read(tap); !errors.Is(err, core.ErrOutOfRange) {
			t.Fatalf("Read(%d): got %v, want ErrOutOfRange", tap, err)
		}
	}
}

func TestWriteDoesNotAdvance(t *testing.T) {
	d, err := New(3)
	if err != nil {
		t.Fatal(err)
	}
	d.Write(1)
	d.Write(2)
	if got := d.Tap(0); got != 2 {
		t.Fatalf("Tap(0): got %v want 2", got)
	}
	if got := d.Tap(1); got != 0 {
		t.Fatalf("Tap(1): got %v want 0", got)
	}
}

func TestSingleTapRoundTrip(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 23; i++ {
		v := float64(i*i) - 7
		d.Write(v)
		d.Advance()
		// Tap 1 now holds the sample written before the advance.
		got, err := d.Read(1)
		if err != nil {
			t.Fatal(err)
		}
		if got != v {
			t.Fatalf("step %d: got %v want %v", i, got, v)
		}
	}
}

func TestReadAfterWriteIsTapZero(t *testing.T) {
	d, err := New(5)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 12; i++ {
		d.Advance()
		d.Write(float64(i))
		got, err := d.Read(0)
		if err != nil {
			t.Fatal(err)
		}
		if got != float64(i) {
			t.Fatalf("step %d: got %v want %v", i, got, float64(i))
		}
	}
}

func TestFullBufferWraparound(t *testing.T) {
	for capacity := 1; capacity <= 6; capacity++ {
		d, err := New(capacity)
		if err != nil {
			t.Fatal(err)
		}
		// Pre-roll so the cursor has wrapped at least once.
		for i := 0; i < 2*capacity+1; i++ {
			d.Write(-1)
			d.Advance()
		}
		// The last write is not advanced past, so it sits at tap 0.
		values := make([]float64, capacity)
		for i := range values {
			values[i] = float64(10 + i)
			d.Write(values[i])
			if i < capacity-1 {
				d.Advance()
			}
		}
		for k := 0; k < capacity; k++ {
			got, err := d.Read(k)
			if err != nil {
				t.Fatal(err)
			}
			if want := values[capacity-1-k]; got != want {
				t.Fatalf("capacity %d Read(%d): got %v want %v", capacity, k, got, want)
			}
		}
	}
}

func TestFullBufferWraparoundAdvanced(t *testing.T) {
	for capacity := 1; capacity <= 6; capacity++ {
		d, err := New(capacity)
		if err != nil {
			t.Fatal(err)
		}
		values := make([]float64, capacity)
		for i := range values {
			values[i] = float64(10 + i)
			d.Write(values[i])
			d.Advance()
		}
		// After a full cycle of write+advance pairs the newest sample is at
		// tap 1 and tap 0 wraps to the oldest.
		for k := 0; k < capacity; k++ {
			got, err := d.Read((k + 1) % capacity)
			if err != nil {
				t.Fatal(err)
			}
			if want := values[capacity-1-k]; got != want {
				t.Fatalf("capacity %d Read(%d): got %v want %v", capacity, (k+1)%capacity, got, want)
			}
		}
	}
}

func TestOffsetsTrackCursor(t *testing.T) {
	d, err := New(3)
	if err != nil {
		t.Fatal(err)
	}
	for step := 0; step < 10; step++ {
		if d.offset(0) != d.cursor {
			t.Fatalf("step %d: offset(0)=%d cursor=%d", step, d.offset(0), d.cursor)
		}
		for k := 0; k < d.Len(); k++ {
			want := ((d.cursor-k)%3 + 3) % 3
			if got := d.offset(k); got != want {
				t.Fatalf("step %d: offset(%d)=%d want %d", step, k, got, want)
			}
		}
		d.Advance()
	}
}

func TestReset(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 6; i++ {
		d.Write(float64(i + 1))
		d.Advance()
	}
	d.Reset()

	if d.cursor != 3 {
		t.Fatalf("cursor after reset: got %d want 3", d.cursor)
	}
	for i := 0; i < 4; i++ {
		if got := d.Tap(i); got != 0 {
			t.Fatalf("after reset Tap(%d): got %v want 0", i, got)
		}
	}
}

func TestSnapshot(t *testing.T) {
	d, err := New(3)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []float64{1, 2, 3, 4} {
		d.Write(v)
		d.Advance()
	}
	d.Write(5)

	got := d.Snapshot(nil)
	want := []float64{5, 4, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Snapshot: got %v want %v", got, want)
		}
	}
}

func TestStateRoundTrip(t *testing.T) {
	d, err := New(3)
	if err != nil {
		t.Fatal(err)
	}
	d.Write(1)
	d.Advance()
	d.Write(2)

	history, cursor := d.State()
	d.Reset()

	if err := d.SetState(history, cursor); err != nil {
		t.Fatal(err)
	}
	if d.Tap(0) != 2 || d.Tap(1) != 1 {
		t.Fatalf("restored taps: %v, %v", d.Tap(0), d.Tap(1))
	}
	if err := d.SetState(history[:2], cursor); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("short state: got %v", err)
	}
	if err := d.SetState(history, 3); !errors.Is(err, core.ErrOutOfRange) {
		t.Fatalf("bad cursor: got %v", err)
	}
}

// --- benchmarks ---

func BenchmarkWriteReadAdvance(b *testing.B) {
	d, _ := New(3)
	b.ResetTimer()

	var acc float64
	for i := 0; i < b.N; i++ {
		d.Write(float64(i))
		acc += d.Tap(0) + d.Tap(1) + d.Tap(2)
		d.Advance()
	}
	_ = acc
}

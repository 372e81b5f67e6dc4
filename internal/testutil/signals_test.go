package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 44100, 1.0, 64)
	if len(s) != 64 {
		t.Fatalf("len = %d, want 64", len(s))
	}
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	for i, v := range s {
		if v < -1 || v > 1 {
			t.Fatalf("s[%d] = %v out of range", i, v)
		}
	}
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)
	c := DeterministicNoise(43, 1.0, 64)
	same := true
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
		if a[i] != c[i] {
			same = false
		}
	}
	if same {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestImpulse(t *testing.T) {
	imp := Impulse(6, 0)
	for i, v := range imp {
		want := 0.0
		if i == 0 {
			want = 1
		}
		if v != want {
			t.Fatalf("imp[%d] = %v, want %v", i, v, want)
		}
	}
	for i, v := range Impulse(4, 10) {
		if v != 0 {
			t.Fatalf("imp[%d] = %v, want 0 for out-of-bounds pos", i, v)
		}
	}
}

func TestBlocks(t *testing.T) {
	data := []float64{0, 1, 2, 3, 4, 5, 6}
	blocks := Blocks(data, 3)
	if len(blocks) != 3 {
		t.Fatalf("blocks = %d, want 3", len(blocks))
	}
	if len(blocks[2]) != 1 || blocks[2][0] != 6 {
		t.Fatalf("last block = %v, want [6]", blocks[2])
	}
	blocks[0][0] = 9
	if data[0] != 9 {
		t.Fatal("blocks must share the backing array")
	}
	if Blocks(data, 0) != nil {
		t.Fatal("expected nil for size 0")
	}
}

package noise

import (
	"math"
	"testing"
)

func TestPerlin2D_Deterministic(t *testing.T) {
	a := NewGenerator(7)
	b := NewGenerator(7)
	for i := 0; i < 100; i++ {
		x, y := float64(i)*0.37, float64(i)*-0.21
		if a.Perlin2D(x, y, 0) != b.Perlin2D(x, y, 0) {
			t.Fatalf("same seed differs at (%v, %v)", x, y)
		}
	}
}

func TestPerlin2D_ZeroAtLattice(t *testing.T) {
	g := NewGenerator(3)
	for x := -3; x <= 3; x++ {
		for y := -3; y <= 3; y++ {
			if v := g.Perlin2D(float64(x), float64(y), 0); v != 0 {
				t.Errorf("lattice point (%d, %d) = %v, want 0", x, y, v)
			}
		}
	}
}

func TestNoiseRanges(t *testing.T) {
	g := NewGenerator(11)
	for i := 0; i < 2000; i++ {
		x, y := float64(i%53)*0.173, float64(i/53)*0.291
		if v := g.Perlin2D(x, y, 0); math.Abs(v) > 1 {
			t.Fatalf("Perlin2D(%v, %v) = %v", x, y, v)
		}
		if v := g.FBM2D(x, y, 4, 2, 0.5); math.Abs(v) > 1 {
			t.Fatalf("FBM2D(%v, %v) = %v", x, y, v)
		}
		if v := g.Ridge2D(x, y); v < 0 || v > 1 {
			t.Fatalf("Ridge2D(%v, %v) = %v", x, y, v)
		}
	}
}

func TestSeedsDiffer(t *testing.T) {
	a, b := NewGenerator(1), NewGenerator(2)
	same := 0
	for i := 0; i < 50; i++ {
		x, y := 0.5+float64(i)*0.9, 0.25+float64(i)*0.4
		if a.Perlin2D(x, y, 0) == b.Perlin2D(x, y, 0) {
			same++
		}
	}
	if same == 50 {
		t.Error("different seeds produced identical noise")
	}
	if a.Seed() != 1 {
		t.Errorf("Seed() = %d", a.Seed())
	}
	if f := a.Float(); f < 0 || f >= 1 {
		t.Errorf("Float() = %v", f)
	}
}

package engine

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/chewxy/math32"
)

func TestBox_Intersect(t *testing.T) {
	box := NewBox(Vec3{}, 1.5, DefaultMaterial())

	tests := []struct {
		name     string
		origin   Vec3
		dir      Vec3
		hit      bool
		distance float32
		normal   Vec3
	}{
		{"front", Vec3{0, 0, 5}, Vec3{0, 0, -1}, true, 4.25, Vec3{0, 0, 1}},
		{"back", Vec3{0, 0, -5}, Vec3{0, 0, 1}, true, 4.25, Vec3{0, 0, -1}},
		{"left", Vec3{-5, 0.2, 0.1}, Vec3{1, 0, 0}, true, 4.25, Vec3{-1, 0, 0}},
		{"top", Vec3{0.3, 5, -0.2}, Vec3{0, -1, 0}, true, 4.25, Vec3{0, 1, 0}},
		{"inside exits", Vec3{0, 0, 0}, Vec3{0, 0, 1}, true, 0.75, Vec3{0, 0, 1}},
		{"miss", Vec3{2, 0, 5}, Vec3{0, 0, -1}, false, 0, Vec3{}},
		{"behind", Vec3{0, 0, 5}, Vec3{0, 0, 1}, false, 0, Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := box.Intersect(tt.origin, tt.dir)
			if ok != tt.hit {
				t.Fatalf("hit = %v, want %v", ok, tt.hit)
			}
			if !ok {
				return
			}
			if math32.Abs(h.Distance-tt.distance) > 1e-5 {
				t.Errorf("distance = %v, want %v", h.Distance, tt.distance)
			}
			if h.Normal != tt.normal {
				t.Errorf("normal = %v, want %v", h.Normal, tt.normal)
			}
			if h.U < 0 || h.U > 1 || h.V < 0 || h.V > 1 {
				t.Errorf("uv (%v, %v) outside [0,1]", h.U, h.V)
			}
			if h.Material != box.Mat {
				t.Error("hit does not carry the box material")
			}
		})
	}
}

func TestBox_UVPerFace(t *testing.T) {
	box := NewBoxBounds(Vec3{0, 0, 0}, Vec3{2, 4, 8}, DefaultMaterial())

	// z face maps (x, y)
	h, _ := box.Intersect(Vec3{0.5, 1, 10}, Vec3{0, 0, -1})
	if math32.Abs(h.U-0.25) > 1e-6 || math32.Abs(h.V-0.25) > 1e-6 {
		t.Errorf("z face uv = (%v, %v), want (0.25, 0.25)", h.U, h.V)
	}
	// x face maps (z, y)
	h, _ = box.Intersect(Vec3{10, 3, 2}, Vec3{-1, 0, 0})
	if math32.Abs(h.U-0.25) > 1e-6 || math32.Abs(h.V-0.75) > 1e-6 {
		t.Errorf("x face uv = (%v, %v), want (0.25, 0.75)", h.U, h.V)
	}
	// y face maps (x, z)
	h, _ = box.Intersect(Vec3{1.5, 10, 6}, Vec3{0, -1, 0})
	if math32.Abs(h.U-0.75) > 1e-6 || math32.Abs(h.V-0.75) > 1e-6 {
		t.Errorf("y face uv = (%v, %v), want (0.75, 0.75)", h.U, h.V)
	}
}

func TestSphere_Intersect(t *testing.T) {
	s := NewSphere(Vec3{0, 0, -5}, 1, DefaultMaterial())

	h, ok := s.Intersect(Vec3{}, Vec3{0, 0, -1})
	if !ok {
		t.Fatal("expected a hit")
	}
	if math32.Abs(h.Distance-4) > 1e-5 {
		t.Errorf("distance = %v, want 4", h.Distance)
	}
	if !approxVec(h.Normal, Vec3{0, 0, 1}, 1e-5) {
		t.Errorf("normal = %v, want +z", h.Normal)
	}

	if _, ok := s.Intersect(Vec3{}, Vec3{0, 1, 0}); ok {
		t.Error("ray pointing away should miss")
	}

	inside, ok := s.Intersect(Vec3{0, 0, -5}, Vec3{1, 0, 0})
	if !ok || math32.Abs(inside.Distance-1) > 1e-5 {
		t.Errorf("from inside: hit=%v distance=%v, want exit at 1", ok, inside.Distance)
	}

	b := s.Bounds()
	if b.Min != (Vec3{-1, -1, -6}) || b.Max != (Vec3{1, 1, -4}) {
		t.Errorf("bounds = %v", b)
	}
}

func TestGradient_Stops(t *testing.T) {
	g := NetherGradient()
	if got := g.Sample(Vec3{0, -1, 0}); got != g.Low {
		t.Errorf("down = %v, want low stop", got)
	}
	if got := g.Sample(Vec3{0, 1, 0}); !approxVec(got, g.High, 1e-6) {
		t.Errorf("up = %v, want high stop %v", got, g.High)
	}
	horizon := g.Sample(Vec3{1, 0, 0})
	want := g.Low.Mul(1.0 / 3).Add(g.Mid.Mul(2.0 / 3))
	if !approxVec(horizon, want, 1e-5) {
		t.Errorf("horizon = %v, want %v", horizon, want)
	}
}

func TestEquirectUV(t *testing.T) {
	tests := []struct {
		dir  Vec3
		u, v float32
	}{
		{Vec3{0, 0, -1}, 0.5, 0.5},
		{Vec3{0, 1, 0}, 0.5, 0},
		{Vec3{0, -1, 0}, 0.5, 0.9999},
		{Vec3{-1, 0, 0}, 0.75, 0.5},
	}
	for _, tt := range tests {
		u, v := EquirectUV(tt.dir)
		if math32.Abs(u-tt.u) > 1e-5 || math32.Abs(v-tt.v) > 1e-5 {
			t.Errorf("EquirectUV(%v) = (%v, %v), want (%v, %v)", tt.dir, u, v, tt.u, tt.v)
		}
	}
}

func TestFramebuffer(t *testing.T) {
	if got := ToRGBA(Vec3{2, -1, 0.5}); got != (color.RGBA{255, 0, 127, 255}) {
		t.Errorf("ToRGBA = %v", got)
	}
	if got := ToRGBA(Vec3{math32.NaN(), 1, 0}); got.R != 0 || got.G != 255 {
		t.Errorf("ToRGBA with NaN = %v", got)
	}

	fb := NewFramebuffer(3, 2)
	if fb.Pixel(2, 1) != (color.RGBA{51, 13, 13, 255}) {
		t.Errorf("new framebuffer not cleared to the background: %v", fb.Pixel(2, 1))
	}
	fb.WriteBand(1, []Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	if fb.Pixel(0, 1) != (color.RGBA{255, 0, 0, 255}) || fb.Pixel(2, 1) != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("band not written to row 1")
	}
	fb.SetPixel(10, 10, One)

	fb.Clear()
	if fb.Pixel(0, 1) != Background {
		t.Errorf("clear = %v", fb.Pixel(1, 1))
	}

	var buf bytes.Buffer
	if err := fb.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Errorf("decoded size %v", img.Bounds())
	}
}

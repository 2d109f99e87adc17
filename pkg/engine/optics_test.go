package engine

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
)

func approxVec(a, b Vec3, eps float32) bool {
	for i := 0; i < 3; i++ {
		if math32.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func randomUnit(rng *rand.Rand) Vec3 {
	for {
		v := Vec3{rng.Float32()*2 - 1, rng.Float32()*2 - 1, rng.Float32()*2 - 1}
		if l := v.Len(); l > 0.1 && l <= 1 {
			return v.Mul(1 / l)
		}
	}
}

func TestReflect_PreservesLengthAndInverts(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 500; i++ {
		v := randomUnit(rng)
		n := randomUnit(rng)
		if math32.Abs(math32.Abs(v.Dot(n))-1) < 1e-3 {
			continue
		}

		r := Reflect(v, n)
		if math32.Abs(r.Len()-1) > 1e-5 {
			t.Fatalf("|reflect(%v, %v)| = %v, want 1", v, n, r.Len())
		}
		if back := Reflect(r, n); !approxVec(back, v, 1e-5) {
			t.Fatalf("reflect(reflect(v)) = %v, want %v", back, v)
		}
	}
}

func TestReflect_Mirror(t *testing.T) {
	got := Reflect(Vec3{1, -1, 0}, Vec3{0, 1, 0})
	if got != (Vec3{1, 1, 0}) {
		t.Errorf("Reflect = %v, want (1,1,0)", got)
	}
}

func TestRefract_UnitIndexDoesNotBend(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	n := Vec3{0, 1, 0}
	for i := 0; i < 200; i++ {
		in := randomUnit(rng)
		if in.Dot(n) > -0.05 && in.Dot(n) < 0.05 {
			continue
		}
		if got := Refract(in, n, 1.0); !approxVec(got, in, 1e-5) {
			t.Fatalf("Refract(%v, ior 1) = %v, want incident", in, got)
		}
	}
}

func TestRefract_TotalInternalReflection(t *testing.T) {
	n := Vec3{0, 1, 0}

	// leaving glass (incident along +n side) at a grazing angle
	grazing := Vec3{1, 0.1, 0}.Normalize()
	if got := Refract(grazing, n, 1.5); !isZero(got) {
		t.Errorf("grazing exit refracted to %v, want zero vector", got)
	}

	// exactly past the critical angle of 1/1.5
	crit := math32.Asin(1 / 1.5)
	past := Vec3{math32.Sin(crit + 0.01), math32.Cos(crit + 0.01), 0}
	if got := Refract(past, n, 1.5); !isZero(got) {
		t.Errorf("beyond critical angle refracted to %v, want zero vector", got)
	}

	// below the critical angle light escapes
	below := Vec3{math32.Sin(crit - 0.1), math32.Cos(crit - 0.1), 0}
	if got := Refract(below, n, 1.5); isZero(got) {
		t.Error("below the critical angle should refract")
	}
}

func TestRefract_OpaqueIndex(t *testing.T) {
	for _, ior := range []float32{0, -1} {
		if got := Refract(Vec3{0, 0, -1}, Vec3{0, 0, 1}, ior); got != Zero {
			t.Errorf("Refract(ior %v) = %v, want zero vector", ior, got)
		}
	}
}

func TestRefract_EnteringBendsTowardNormal(t *testing.T) {
	n := Vec3{0, 1, 0}
	in := Vec3{1, -1, 0}.Normalize()
	out := Refract(in, n, 1.5)

	if out[1] >= 0 {
		t.Fatalf("refracted ray %v does not continue into the surface", out)
	}
	sinIn := in[0]
	sinOut := out[0] / out.Len()
	if math32.Abs(sinIn-1.5*sinOut) > 1e-5 {
		t.Errorf("Snell violated: sin(in)=%v, 1.5*sin(out)=%v", sinIn, 1.5*sinOut)
	}
}

func TestOffsetOrigin(t *testing.T) {
	p := Vec3{0, 0, 0}
	n := Vec3{0, 1, 0}
	if got := offsetOrigin(p, n, Vec3{0, -1, 0}, 0.1); got != (Vec3{0, -0.1, 0}) {
		t.Errorf("entering offset = %v", got)
	}
	if got := offsetOrigin(p, n, Vec3{0, 1, 0}, 0.1); got != (Vec3{0, 0.1, 0}) {
		t.Errorf("leaving offset = %v", got)
	}
}

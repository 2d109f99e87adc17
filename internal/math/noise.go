// Package noise provides seeded 2D gradient noise for heightmaps.
package noise

import (
	"math"
	"math/rand"
)

// Generator produces deterministic gradient noise for a fixed seed
type Generator struct {
	seed int64
	rng  *rand.Rand
}

// NewGenerator creates a generator. The same seed always yields the same field.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the generator seed
func (g *Generator) Seed() int64 {
	return g.seed
}

// Float returns the next value of the seeded sequence in [0, 1)
func (g *Generator) Float() float64 {
	return g.rng.Float64()
}

// Perlin2D samples gradient noise in roughly [-1, 1] on layer octave
func (g *Generator) Perlin2D(x, y float64, octave int) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	fx := x - x0
	fy := y - y0
	ix, iy := int(x0), int(y0)
	layer := int(g.seed) + octave*7919

	d00 := grad(hash(ix, iy, layer), fx, fy)
	d10 := grad(hash(ix+1, iy, layer), fx-1, fy)
	d01 := grad(hash(ix, iy+1, layer), fx, fy-1)
	d11 := grad(hash(ix+1, iy+1, layer), fx-1, fy-1)

	sx := fade(fx)
	sy := fade(fy)
	return lerp(lerp(d00, d10, sx), lerp(d01, d11, sx), sy)
}

// FBM2D sums octaves of Perlin noise, normalised by the total amplitude
func (g *Generator) FBM2D(x, y float64, octaves int, lacunarity, gain float64) float64 {
	if octaves < 1 {
		octaves = 1
	}
	sum, norm := 0.0, 0.0
	amp, freq := 1.0, 1.0
	for i := 0; i < octaves; i++ {
		sum += g.Perlin2D(x*freq, y*freq, i) * amp
		norm += amp
		amp *= gain
		freq *= lacunarity
	}
	return sum / norm
}

// Ridge2D folds noise around zero so crests form sharp ridges, in [0, 1]
func (g *Generator) Ridge2D(x, y float64) float64 {
	n := 1 - math.Abs(g.Perlin2D(x, y, 101))
	if n < 0 {
		n = 0
	}
	return n * n
}

func hash(x, y, seed int) uint32 {
	h := uint32(seed) + uint32(x)*374761393 + uint32(y)*668265263
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}

// grad dots the offset with one of eight unit-ish gradient directions
func grad(h uint32, x, y float64) float64 {
	switch h & 7 {
	case 0:
		return x
	case 1:
		return -x
	case 2:
		return y
	case 3:
		return -y
	case 4:
		return (x + y) * math.Sqrt2 / 2
	case 5:
		return (-x + y) * math.Sqrt2 / 2
	case 6:
		return (x - y) * math.Sqrt2 / 2
	default:
		return (-x - y) * math.Sqrt2 / 2
	}
}

// fade is the quintic 6t^5 - 15t^4 + 10t^3
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

package scene

import (
	"math"
	"time"

	noise "netherbox/internal/math"
	"netherbox/pkg/engine"
)

// TerrainParams controls the procedural block terrain
type TerrainParams struct {
	Size      int     // columns per side
	BlockSize float32 // edge length of one cube
	MaxHeight int     // tallest column in blocks
	Octaves   int
	Scale     float64
	Seed      int64 // 0 picks a time based seed
	// GlowChance is the probability of a peak block becoming shroomlight
	GlowChance float64
}

// DefaultTerrainParams returns a small terrain that renders quickly
func DefaultTerrainParams() TerrainParams {
	return TerrainParams{
		Size:       16,
		BlockSize:  1,
		MaxHeight:  4,
		Octaves:    4,
		Scale:      0.15,
		GlowChance: 0.04,
	}
}

// HeightMap holds terrain elevation in [0, 1] and the chosen material per column
type HeightMap struct {
	Size      int
	Data      [][]float64
	Materials [][]string
}

// Terrain generates block terrain from seeded noise
type Terrain struct {
	params TerrainParams
	gen    *noise.Generator
}

// NewTerrain creates a terrain generator
func NewTerrain(params TerrainParams) *Terrain {
	if params.Seed == 0 {
		params.Seed = time.Now().UnixNano()
	}
	if params.Size < 1 {
		params.Size = 1
	}
	if params.MaxHeight < 1 {
		params.MaxHeight = 1
	}
	if params.BlockSize <= 0 {
		params.BlockSize = 1
	}
	return &Terrain{
		params: params,
		gen:    noise.NewGenerator(params.Seed),
	}
}

// Seed returns the seed in use
func (t *Terrain) Seed() int64 {
	return t.params.Seed
}

// HeightMap samples elevation for every column
func (t *Terrain) HeightMap() *HeightMap {
	size := t.params.Size
	hm := &HeightMap{
		Size:      size,
		Data:      make([][]float64, size),
		Materials: make([][]string, size),
	}

	for z := 0; z < size; z++ {
		hm.Data[z] = make([]float64, size)
		hm.Materials[z] = make([]string, size)
		for x := 0; x < size; x++ {
			worldX := float64(x - size/2)
			worldZ := float64(z - size/2)

			elevation := t.gen.FBM2D(worldX*t.params.Scale, worldZ*t.params.Scale, t.params.Octaves, 2.0, 0.5)
			elevation = (elevation + 1.0) * 0.5
			elevation = t.applyFeatures(elevation, worldX, worldZ)

			hm.Data[z][x] = elevation
			hm.Materials[z][x] = materialForElevation(elevation)
		}
	}
	return hm
}

// applyFeatures carves a central basin and adds ridges
func (t *Terrain) applyFeatures(elevation, x, z float64) float64 {
	dist := math.Sqrt(x*x+z*z) / float64(t.params.Size)
	basin := math.Max(0, 1.0-2*dist)
	elevation -= basin * basin * basin * 0.3

	ridge := t.gen.Ridge2D(x*t.params.Scale*1.5, z*t.params.Scale*1.5)
	elevation += ridge * 0.2

	return math.Max(0, math.Min(1, elevation))
}

// materialForElevation picks a preset by elevation band
func materialForElevation(elevation float64) string {
	switch {
	case elevation < 0.3:
		return "crimson_nylium"
	case elevation < 0.5:
		return "nether_wart_block"
	case elevation < 0.7:
		return "crimson_stem"
	default:
		return "obsidian"
	}
}

// Build turns the heightmap into stacked cubes centered on the origin. The
// ground layer sits at y = -BlockSize so a default camera looks down on it.
func (t *Terrain) Build(presets Presets) []engine.Primitive {
	hm := t.HeightMap()
	size := hm.Size
	bs := t.params.BlockSize
	offset := float32(size-1) * bs / 2

	lookup := func(name string) *engine.Material {
		if m, ok := presets[name]; ok {
			return m
		}
		return engine.DefaultMaterial()
	}

	var prims []engine.Primitive
	for z := 0; z < size; z++ {
		for x := 0; x < size; x++ {
			columns := 1 + int(hm.Data[z][x]*float64(t.params.MaxHeight-1)+0.5)
			mat := lookup(hm.Materials[z][x])
			for y := 0; y < columns; y++ {
				center := engine.Vec3{
					float32(x)*bs - offset,
					float32(y-1) * bs,
					float32(z)*bs - offset,
				}
				m := mat
				if y == columns-1 && columns > 1 && t.gen.Float() < t.params.GlowChance {
					m = lookup("shroomlight")
				}
				prims = append(prims, engine.NewBox(center, bs, m))
			}
		}
	}
	return prims
}

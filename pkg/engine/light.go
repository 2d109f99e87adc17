package engine

// Light is a point light
type Light struct {
	Position  Vec3
	Color     Vec3
	Intensity float32
}

// DefaultSun is the fixed key light of the nether scenes
func DefaultSun() Light {
	return Light{
		Position:  Vec3{5, 8, 5},
		Color:     Vec3{1, 0.7, 0.5},
		Intensity: 1.3,
	}
}

// SceneLights returns the sun followed by one point light per emissive
// primitive, placed at the primitive's bounds center with the emission color
// and an intensity of EmissionStrength*scale.
func SceneLights(sun Light, prims []Primitive, scale float32) []Light {
	lights := []Light{sun}
	for _, p := range prims {
		m := p.Material()
		if m == nil || !m.IsEmissive() {
			continue
		}
		lights = append(lights, Light{
			Position:  p.Bounds().Center(),
			Color:     m.Emission,
			Intensity: m.EmissionStrength * scale,
		})
	}
	return lights
}

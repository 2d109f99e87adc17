package engine

// Material describes how a surface reflects, transmits and emits light.
// Materials are immutable once attached to a primitive and are shared by
// pointer across every hit on it.
type Material struct {
	Name    string
	Diffuse Vec3
	// Albedo holds the diffuse and specular weights. They need not sum to one.
	Albedo          [2]float32
	Specular        float32
	Reflectivity    float32
	Transparency    float32
	RefractiveIndex float32

	// Texture and NormalMap name assets resolved by the injected samplers.
	// Empty means none.
	Texture   string
	NormalMap string

	Emission         Vec3
	EmissionStrength float32
}

// IsEmissive reports whether the material spawns a point light
func (m *Material) IsEmissive() bool {
	return m.EmissionStrength > 0
}

// DefaultMaterial is a plain matte grey surface
func DefaultMaterial() *Material {
	return &Material{
		Name:     "default",
		Diffuse:  Vec3{0.5, 0.5, 0.5},
		Albedo:   [2]float32{0.9, 0.1},
		Specular: 10,
	}
}

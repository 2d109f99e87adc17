package engine

import (
	"github.com/chewxy/math32"
)

// TextureSampler looks up a color in a named texture at normalised
// coordinates. ok is false when the texture is not available.
type TextureSampler interface {
	Sample(name string, u, v float32) (color Vec3, ok bool)
}

// NormalSampler decodes a tangent-space normal from a named normal map
type NormalSampler interface {
	SampleNormal(name string, u, v float32) (normal Vec3, ok bool)
}

// SkySampler looks up an environment color along a direction
type SkySampler interface {
	SampleSky(dir Vec3) (color Vec3, ok bool)
}

// ShadingParams holds the tuning constants of the shading model
type ShadingParams struct {
	// MaxDepth is the deepest recursion level that still traces geometry.
	// Calls deeper than this return the sky.
	MaxDepth int
	// ShadowAttenuation is the fraction of a light removed when its shadow
	// ray is blocked.
	ShadowAttenuation float32
	// OriginBias offsets secondary ray origins off the surface
	OriginBias float32
	// LambertCutoff skips lights whose N·L falls below it
	LambertCutoff float32
	// BranchCutoff is the reflectivity and transparency needed to recurse
	BranchCutoff float32
	// EmissionCutoff is the emission strength needed for self-illumination
	EmissionCutoff float32
}

// DefaultShadingParams returns the standard tuning
func DefaultShadingParams() ShadingParams {
	return ShadingParams{
		MaxDepth:          2,
		ShadowAttenuation: 0.7,
		OriginBias:        1e-4,
		LambertCutoff:     0.01,
		BranchCutoff:      0.05,
		EmissionCutoff:    0.01,
	}
}

// Scene is the read-only geometry and lighting shared by render workers
type Scene struct {
	Primitives []Primitive
	Lights     []Light
	BVH        *BVH
}

// NewScene builds the hierarchy for prims
func NewScene(prims []Primitive, lights []Light) *Scene {
	return &Scene{
		Primitives: prims,
		Lights:     lights,
		BVH:        BuildBVH(prims),
	}
}

// RayStats counts the rays traced by one worker. Each worker owns its own.
type RayStats struct {
	Primary    int64 `json:"primary"`
	Shadow     int64 `json:"shadow"`
	Occluded   int64 `json:"occluded"`
	Reflection int64 `json:"reflection"`
	Refraction int64 `json:"refraction"`
	// DeepestCall is the largest recursion depth entered
	DeepestCall int `json:"deepest_call"`
}

// Add accumulates other into s
func (s *RayStats) Add(other RayStats) {
	s.Primary += other.Primary
	s.Shadow += other.Shadow
	s.Occluded += other.Occluded
	s.Reflection += other.Reflection
	s.Refraction += other.Refraction
	if other.DeepestCall > s.DeepestCall {
		s.DeepestCall = other.DeepestCall
	}
}

// Total returns the number of rays of all kinds
func (s RayStats) Total() int64 {
	return s.Primary + s.Shadow + s.Reflection + s.Refraction
}

// Shader evaluates radiance along rays. It never mutates the scene and can
// be shared by any number of goroutines.
type Shader struct {
	scene    *Scene
	params   ShadingParams
	gradient Gradient
	textures TextureSampler
	normals  NormalSampler
	sky      SkySampler
}

// ShaderOption configures a Shader
type ShaderOption func(*Shader)

// WithTextures attaches a texture sampler
func WithTextures(ts TextureSampler) ShaderOption {
	return func(s *Shader) { s.textures = ts }
}

// WithNormalMaps attaches a normal map sampler
func WithNormalMaps(ns NormalSampler) ShaderOption {
	return func(s *Shader) { s.normals = ns }
}

// WithSky attaches an environment map. Directions it cannot resolve fall
// back to the gradient.
func WithSky(sky SkySampler) ShaderOption {
	return func(s *Shader) { s.sky = sky }
}

// WithGradient replaces the procedural sky gradient
func WithGradient(g Gradient) ShaderOption {
	return func(s *Shader) { s.gradient = g }
}

// NewShader creates a shader over scene
func NewShader(scene *Scene, params ShadingParams, opts ...ShaderOption) *Shader {
	s := &Shader{
		scene:    scene,
		params:   params,
		gradient: NetherGradient(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scene returns the shaded scene
func (s *Shader) Scene() *Scene {
	return s.scene
}

// Trace returns the linear color seen along a primary ray. stats may be nil.
func (s *Shader) Trace(origin, dir Vec3, stats *RayStats) Vec3 {
	if stats == nil {
		stats = &RayStats{}
	}
	stats.Primary++
	return s.castRay(origin, dir, 0, stats)
}

// Sky returns the environment color along dir
func (s *Shader) Sky(dir Vec3) Vec3 {
	if s.sky != nil {
		if c, ok := s.sky.SampleSky(dir); ok {
			return c
		}
	}
	return s.gradient.Sample(dir)
}

func (s *Shader) castRay(origin, dir Vec3, depth int, stats *RayStats) Vec3 {
	if depth > stats.DeepestCall {
		stats.DeepestCall = depth
	}
	if depth > s.params.MaxDepth {
		return s.Sky(dir)
	}

	hit, ok := s.scene.BVH.Intersect(origin, dir, InverseDirection(dir))
	if !ok {
		return s.Sky(dir)
	}

	mat := hit.Material
	if mat == nil {
		mat = DefaultMaterial()
	}
	normal := s.shadingNormal(hit, mat)
	view := normalize(origin.Sub(hit.Point))

	var totalDiffuse, totalSpecular Vec3
	for _, light := range s.scene.Lights {
		toLight := light.Position.Sub(hit.Point)
		lightDir := normalize(toLight)

		lambert := math32.Max(normal.Dot(lightDir), 0)
		if lambert < s.params.LambertCutoff {
			continue
		}

		intensity := light.Intensity
		if s.occluded(hit, lightDir, toLight.Len(), stats) {
			intensity *= 1 - s.params.ShadowAttenuation
		}

		totalDiffuse = totalDiffuse.Add(light.Color.Mul(lambert * intensity))

		reflected := normalize(Reflect(lightDir.Mul(-1), normal))
		spec := math32.Pow(math32.Max(view.Dot(reflected), 0), mat.Specular) * intensity
		totalSpecular = totalSpecular.Add(light.Color.Mul(spec))
	}

	diffuseColor := s.diffuseColor(hit, mat)

	var reflection Vec3
	if mat.Reflectivity > s.params.BranchCutoff {
		stats.Reflection++
		reflDir := Reflect(dir, normal)
		reflOrigin := hit.Point.Add(hit.Normal.Mul(s.params.OriginBias))
		reflection = s.castRay(reflOrigin, reflDir, depth+1, stats)
	}

	var refraction Vec3
	// a zero refractive index marks the material opaque
	if mat.Transparency > s.params.BranchCutoff && mat.RefractiveIndex > 0 {
		refrDir := Refract(dir, normal, mat.RefractiveIndex)
		// total internal reflection contributes nothing
		if !isZero(refrDir) {
			stats.Refraction++
			refrOrigin := offsetOrigin(hit.Point, hit.Normal, refrDir, s.params.OriginBias)
			refraction = s.castRay(refrOrigin, refrDir, depth+1, stats)
		}
	}

	var emissive Vec3
	if mat.EmissionStrength > s.params.EmissionCutoff {
		emissive = hadamard(diffuseColor, mat.Emission).Mul(mat.EmissionStrength)
	}

	return hadamard(diffuseColor, totalDiffuse).Mul(mat.Albedo[0]).
		Add(totalSpecular.Mul(mat.Albedo[1])).
		Add(reflection.Mul(mat.Reflectivity)).
		Add(refraction.Mul(mat.Transparency)).
		Add(emissive)
}

// occluded casts a shadow ray toward a light at the given distance
func (s *Shader) occluded(hit Hit, lightDir Vec3, lightDist float32, stats *RayStats) bool {
	stats.Shadow++
	origin := hit.Point.Add(hit.Normal.Mul(s.params.OriginBias))
	blocker, ok := s.scene.BVH.Intersect(origin, lightDir, InverseDirection(lightDir))
	if ok && blocker.Distance < lightDist {
		stats.Occluded++
		return true
	}
	return false
}

func (s *Shader) diffuseColor(hit Hit, mat *Material) Vec3 {
	if mat.Texture == "" || s.textures == nil {
		return mat.Diffuse
	}
	if c, ok := s.textures.Sample(mat.Texture, hit.U, hit.V); ok {
		return c
	}
	return mat.Diffuse
}

// shadingNormal perturbs the geometric normal by the material's normal map
func (s *Shader) shadingNormal(hit Hit, mat *Material) Vec3 {
	if mat.NormalMap == "" || s.normals == nil {
		return hit.Normal
	}
	local, ok := s.normals.SampleNormal(mat.NormalMap, hit.U, hit.V)
	if !ok {
		return hit.Normal
	}
	t, b := tangentFrame(hit.Normal)
	n := t.Mul(local[0]).Add(b.Mul(local[1])).Add(hit.Normal.Mul(local[2]))
	if isZero(n) {
		return hit.Normal
	}
	return normalize(n)
}

// tangentFrame returns a tangent and bitangent that, with n, form an
// orthonormal basis. For box faces the tangent follows the u direction of
// the face mapping.
func tangentFrame(n Vec3) (Vec3, Vec3) {
	var t Vec3
	switch {
	case math32.Abs(n[0]) > 0.5:
		t = Vec3{0, 0, 1}
	default:
		t = Vec3{1, 0, 0}
	}
	// Gram-Schmidt keeps the frame orthonormal for curved surfaces
	t = normalize(t.Sub(n.Mul(n.Dot(t))))
	return t, n.Cross(t)
}

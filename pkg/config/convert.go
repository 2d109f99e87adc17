package config

import (
	"netherbox/pkg/engine"

	"github.com/chewxy/math32"
)

// Vec converts a config vector to the engine vector type
func (v Vec3) Vec() engine.Vec3 {
	return engine.Vec3{v[0], v[1], v[2]}
}

// ShadingParams builds the shader parameters from the raytracer section
func (c *Config) ShadingParams() engine.ShadingParams {
	p := engine.DefaultShadingParams()
	p.MaxDepth = c.Raytracer.MaxDepth
	p.ShadowAttenuation = c.Raytracer.ShadowAttenuation
	if c.Raytracer.OriginBias > 0 {
		p.OriginBias = c.Raytracer.OriginBias
	}
	return p
}

// FOV returns the vertical field of view in radians
func (c *Config) FOV() float32 {
	return c.Raytracer.FOVDegrees * math32.Pi / 180
}

// RenderConfig builds the per-frame constants for the configured resolution
func (c *Config) RenderConfig() engine.RenderConfig {
	return engine.NewRenderConfig(c.Raytracer.Width, c.Raytracer.Height, c.FOV())
}

// NewCamera builds the initial camera
func (c *Config) NewCamera() *engine.Camera {
	return engine.NewCamera(c.Camera.Eye.Vec(), c.Camera.Center.Vec(), c.Camera.Up.Vec())
}

// SunLight returns the configured directional-ish point light
func (c *Config) SunLight() engine.Light {
	return engine.Light{
		Position:  c.Sun.Position.Vec(),
		Color:     c.Sun.Color.Vec(),
		Intensity: c.Sun.Intensity,
	}
}

// Gradient returns the procedural sky gradient
func (c *Config) Gradient() engine.Gradient {
	return engine.Gradient{
		Low:     c.Sky.Low.Vec(),
		Mid:     c.Sky.Mid.Vec(),
		High:    c.Sky.High.Vec(),
		LowStop: c.Sky.LowStop,
		MidStop: c.Sky.MidStop,
	}
}

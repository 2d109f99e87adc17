package engine

import (
	"netherbox/internal/util"

	"github.com/chewxy/math32"
)

// Gradient is a three stop vertical sky gradient
type Gradient struct {
	Low, Mid, High Vec3
	// LowStop and MidStop are the heights, in [0,1], where the blend between
	// Low and Mid starts and where Mid is reached.
	LowStop, MidStop float32
}

// NetherGradient returns the default dark red sky
func NetherGradient() Gradient {
	return Gradient{
		Low:     Vec3{0.2, 0.05, 0.05},
		Mid:     Vec3{0.4, 0.08, 0.1},
		High:    Vec3{0.3, 0.1, 0.05},
		LowStop: 0.3,
		MidStop: 0.6,
	}
}

// Sample returns the sky color seen along dir
func (g Gradient) Sample(dir Vec3) Vec3 {
	d := normalize(dir)
	t := (d[1] + 1) * 0.5

	switch {
	case t < g.LowStop:
		return g.Low
	case t < g.MidStop:
		return lerpVec(g.Low, g.Mid, util.Map(t, g.LowStop, g.MidStop, 0, 1))
	default:
		return lerpVec(g.Mid, g.High, util.Map(t, g.MidStop, 1, 0, 1))
	}
}

// EquirectUV maps a direction to equirectangular texture coordinates in
// [0, 0.9999].
func EquirectUV(dir Vec3) (float32, float32) {
	d := normalize(dir)
	var theta float32
	// the poles have no azimuth
	if d[0] != 0 || d[2] != 0 {
		theta = math32.Atan2(-d[0], -d[2])
	}
	phi := math32.Asin(math32.Max(-1, math32.Min(1, d[1])))

	u := 0.5 + theta/(2*math32.Pi)
	v := 0.5 - phi/math32.Pi
	return util.Clamp(u, 0, 0.9999), util.Clamp(v, 0, 0.9999)
}

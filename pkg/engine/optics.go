package engine

import (
	"github.com/chewxy/math32"
)

// Reflect mirrors the incident vector about the normal
func Reflect(incident, normal Vec3) Vec3 {
	return incident.Sub(normal.Mul(2 * incident.Dot(normal)))
}

// Refract bends the incident direction through a surface with the given
// refractive index using Snell's law. The outside medium has index 1. The
// zero vector is returned on total internal reflection and for a non-positive
// index, which marks an opaque material.
func Refract(incident, normal Vec3, ior float32) Vec3 {
	if ior <= 0 {
		return Zero
	}
	cosi := math32.Max(-1, math32.Min(1, incident.Dot(normal)))
	etai, etat := float32(1), ior
	n := normal

	if cosi > 0 {
		// leaving the medium
		etai, etat = etat, etai
		n = n.Mul(-1)
	} else {
		cosi = -cosi
	}

	eta := etai / etat
	k := 1 - eta*eta*(1-cosi*cosi)
	if k < 0 {
		return Zero
	}
	return incident.Mul(eta).Add(n.Mul(eta*cosi - math32.Sqrt(k)))
}

// offsetOrigin nudges p off the surface onto the side dir travels into
func offsetOrigin(p, normal, dir Vec3, bias float32) Vec3 {
	offset := normal.Mul(bias)
	if dir.Dot(normal) < 0 {
		return p.Sub(offset)
	}
	return p.Add(offset)
}

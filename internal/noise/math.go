// Package noise implements tileable, seed-parameterized noise primitives and
// the fractal summation that layers octaves of them.
//
// All samplers take a position and a repeat period in the same units: a
// sampler queried at pos and at pos + k*repeat returns the same value for any
// integer k, exactly when pos + k*repeat is representable in float32 and to
// within a few ulps of rounding otherwise.
package noise

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// mod is the floored modulo used by GLSL and glm: x - y*floor(x/y).
func mod(x, y float32) float32 {
	return x - y*math32.Floor(x/y)
}

func fract(x float32) float32 {
	return x - math32.Floor(x)
}

// Wrap maps x into the half-open interval [lo, hi).
func Wrap(x, lo, hi float32) float32 {
	span := hi - lo
	return lo + mod(span+mod(x-lo, span), span)
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float32) float32 {
	return mgl32.Clamp(v, 0, 1)
}

// LinearStep remaps x from [lo, hi] to [0, 1] with clamping. When lo equals
// hi the ramp collapses into a step: 0 below lo, 1 at or above it.
func LinearStep(lo, hi, x float32) float32 {
	if hi == lo {
		if x < lo {
			return 0
		}
		return 1
	}
	return Clamp01((x - lo) / (hi - lo))
}

func maxComponent(v mgl32.Vec3) float32 {
	return math32.Max(math32.Max(v[0], v[1]), v[2])
}

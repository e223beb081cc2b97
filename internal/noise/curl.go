package noise

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// curlStep is the central difference step. It must stay small relative to
// the noise frequency.
const curlStep = 1e-3

// Curl returns a divergence-free vector field built from the curl of a
// gradient noise potential, remapped from roughly [-1, 1] to [0, 1] per
// component.
func Curl(seed uint32, pos, repeat mgl32.Vec3) mgl32.Vec3 {
	derivative := func(axis int) mgl32.Vec3 {
		var d mgl32.Vec3
		d[axis] = curlStep
		hi := GradientTriplet(seed, pos.Add(d), repeat)
		lo := GradientTriplet(seed, pos.Sub(d), repeat)
		return hi.Sub(lo).Mul(1 / (2 * curlStep))
	}
	dx := derivative(0)
	dy := derivative(1)
	dz := derivative(2)

	v := mgl32.Vec3{
		dy[2] - dz[1],
		dz[0] - dx[2],
		dx[1] - dy[0],
	}
	v = v.Mul(1 / math32.Sqrt(2))
	return v.Mul(0.5).Add(mgl32.Vec3{0.5, 0.5, 0.5})
}

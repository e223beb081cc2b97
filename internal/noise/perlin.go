package noise

import (
	"volnoise/pkg/core"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// goldenW spaces seeds along the fourth axis of the gradient noise.
const goldenW = 1.618033

// Gradient is periodic gradient (Perlin) noise remapped to [0, 1].
type Gradient struct{}

// Sample embeds pos into 4D periodic noise at an offset along w that depends
// on seed. The w period is the largest spatial period so tiling is preserved.
func (Gradient) Sample(seed uint32, pos, repeat mgl32.Vec3) float32 {
	p := [4]float32{pos[0], pos[1], pos[2], goldenW * float32(seed%1000)}
	rep := [4]float32{repeat[0], repeat[1], repeat[2], maxComponent(repeat)}
	return Clamp01(Perlin4(p, rep)*0.5 + 0.5)
}

// GradientTriplet samples three gradient noise fields with successively
// mixed seeds.
func GradientTriplet(seed uint32, pos, repeat mgl32.Vec3) mgl32.Vec3 {
	var g Gradient
	x := g.Sample(seed, pos, repeat)
	seed = core.Mix32(seed)
	y := g.Sample(seed, pos, repeat)
	seed = core.Mix32(seed)
	z := g.Sample(seed, pos, repeat)
	return mgl32.Vec3{x, y, z}
}

func mod289(x float32) float32 {
	return x - math32.Floor(x*(1.0/289.0))*289.0
}

func permute(x float32) float32 {
	return mod289((x*34.0 + 1.0) * x)
}

func taylorInvSqrt(r float32) float32 {
	return 1.79284291400159 - 0.85373472095314*r
}

func fade(t float32) float32 {
	return t * t * t * (t*(t*6.0-15.0) + 10.0)
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

func step(edge, x float32) float32 {
	if x < edge {
		return 0
	}
	return 1
}

// gradient4 derives a pseudo-random 4D gradient from a permutation hash.
func gradient4(h float32) [4]float32 {
	gx := h * (1.0 / 7.0)
	gy := math32.Floor(gx) * (1.0 / 7.0)
	gz := math32.Floor(gy) * (1.0 / 6.0)
	gx = fract(gx) - 0.5
	gy = fract(gy) - 0.5
	gz = fract(gz) - 0.5
	gw := 0.75 - math32.Abs(gx) - math32.Abs(gy) - math32.Abs(gz)
	sw := step(gw, 0)
	gx -= sw * (step(0, gx) - 0.5)
	gy -= sw * (step(0, gy) - 0.5)
	n := taylorInvSqrt(gx*gx + gy*gy + gz*gz + gw*gw)
	return [4]float32{gx * n, gy * n, gz * n, gw * n}
}

// Perlin4 is classic 4D gradient noise that repeats with period rep on each
// axis. The result lies roughly in [-1, 1].
func Perlin4(p, rep [4]float32) float32 {
	var (
		cell [2][4]float32
		off  [2][4]float32
		t    [4]float32
	)
	for i := 0; i < 4; i++ {
		fl := math32.Floor(p[i])
		i0 := mod(fl, rep[i])
		i1 := mod(i0+1, rep[i])
		cell[0][i] = mod289(i0)
		cell[1][i] = mod289(i1)
		off[0][i] = p[i] - fl
		off[1][i] = off[0][i] - 1
		t[i] = fade(off[0][i])
	}

	var corners [16]float32
	for c := 0; c < 16; c++ {
		bx, by, bz, bw := c&1, (c>>1)&1, (c>>2)&1, (c>>3)&1
		h := permute(permute(permute(permute(cell[bx][0])+cell[by][1])+cell[bz][2]) + cell[bw][3])
		g := gradient4(h)
		corners[c] = g[0]*off[bx][0] + g[1]*off[by][1] + g[2]*off[bz][2] + g[3]*off[bw][3]
	}

	// Collapse one axis at a time: x, then y, z and w.
	for axis, half := 0, 8; half > 0; axis, half = axis+1, half/2 {
		for i := 0; i < half; i++ {
			corners[i] = lerp(corners[2*i], corners[2*i+1], t[axis])
		}
	}
	return 2.2 * corners[0]
}

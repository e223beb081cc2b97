package noise

import (
	"volnoise/pkg/core"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Sampler is a scalar noise primitive usable as an fBm octave.
type Sampler interface {
	Sample(seed uint32, pos, repeat mgl32.Vec3) float32
}

// SamplerFunc adapts a plain function to the Sampler interface.
type SamplerFunc func(seed uint32, pos, repeat mgl32.Vec3) float32

// Sample calls f.
func (f SamplerFunc) Sample(seed uint32, pos, repeat mgl32.Vec3) float32 {
	return f(seed, pos, repeat)
}

// Octaves describes a fractal sum of noise octaves.
type Octaves struct {
	Count       int
	Frequency   float32
	Lacunarity  float32
	Persistence float32
}

// DefaultOctaves returns a single octave at frequency 10.
func DefaultOctaves() Octaves {
	return Octaves{Count: 1, Frequency: 10, Lacunarity: 2, Persistence: 0.5}
}

// FinalFrequency returns the frequency of the last octave, computed the same
// way FBM steps it. It is 0 when there are no octaves.
func (o Octaves) FinalFrequency() float32 {
	if o.Count <= 0 {
		return 0
	}
	f := o.Frequency
	for i := 1; i < o.Count; i++ {
		f *= o.Lacunarity
	}
	return f
}

// FBM sums o.Count octaves of s. Each octave scales pos and repeat by the
// current frequency and mixes the seed for the next octave. The weighted sum
// is normalized by the total weight and clamped to [0, 1]; no octaves yields 0.
func FBM[S Sampler](s S, seed uint32, pos, repeat mgl32.Vec3, o Octaves) float32 {
	if o.Count <= 0 {
		return 0
	}

	amplitude := float32(1)
	frequency := o.Frequency
	var sum, weight float32
	for i := 0; i < o.Count; i++ {
		sum += amplitude * s.Sample(seed, pos.Mul(frequency), repeat.Mul(frequency))
		weight += amplitude
		amplitude *= o.Persistence
		frequency *= o.Lacunarity
		seed = core.Mix32(seed)
	}
	v := sum / weight
	if math32.IsNaN(v) {
		// Weights can cancel out for negative persistence.
		return 0
	}
	return Clamp01(v)
}

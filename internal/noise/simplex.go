package noise

import (
	"volnoise/pkg/core"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/ojrac/opensimplex-go"
)

// Simplex is non-periodic OpenSimplex noise in [0, 1]. Generators are built
// up front for the seeds an fBm chain will visit, so sampling never
// allocates and is safe for concurrent use. repeat is ignored: the output does
// not tile.
type Simplex struct {
	gens map[uint32]opensimplex.Noise32
}

// NewSimplex prepares generators for seed and the next octaves-1 mixed seeds.
func NewSimplex(seed uint32, octaves int) *Simplex {
	s := &Simplex{gens: make(map[uint32]opensimplex.Noise32, octaves)}
	for i := 0; i < octaves; i++ {
		if _, ok := s.gens[seed]; !ok {
			s.gens[seed] = opensimplex.NewNormalized32(int64(seed))
		}
		seed = core.Mix32(seed)
	}
	return s
}

// Sample evaluates the generator for seed at pos. Unknown seeds yield 0.5.
func (s *Simplex) Sample(seed uint32, pos, _ mgl32.Vec3) float32 {
	gen, ok := s.gens[seed]
	if !ok {
		return 0.5
	}
	return Clamp01(gen.Eval3(pos[0], pos[1], pos[2]))
}

package channel

import (
	"fmt"

	"volnoise/internal/core"
	"volnoise/internal/noise"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// unitRepeat is the base period; fBm scales it by each octave's frequency.
var unitRepeat = mgl32.Vec3{1, 1, 1}

// TiledSource supplies precomputed tileable noise volumes by resolution.
// Returned volumes must not be mutated afterwards.
type TiledSource interface {
	Load(resolution int) (*core.Volume, error)
}

// Evaluator computes one channel's value at normalized positions. It holds
// only read-only state and is safe for concurrent use.
type Evaluator struct {
	ch      Channel
	index   int
	tiled   *core.Volume
	simplex *noise.Simplex
}

// Compile validates channels and prepares an evaluator for each. Channel i
// becomes output channel i. src may be nil when no channel uses tiled noise.
func Compile(channels []Channel, src TiledSource) ([]*Evaluator, error) {
	if len(channels) == 0 || len(channels) > core.MaxChannels {
		return nil, fmt.Errorf("%w: %d channels, expected 1 to %d", ErrConfig, len(channels), core.MaxChannels)
	}
	evals := make([]*Evaluator, len(channels))
	for i, ch := range channels {
		e, err := NewEvaluator(ch, i, src)
		if err != nil {
			return nil, err
		}
		evals[i] = e
	}
	return evals, nil
}

// NewEvaluator prepares ch for output channel index.
func NewEvaluator(ch Channel, index int, src TiledSource) (*Evaluator, error) {
	if err := ch.Validate(index); err != nil {
		return nil, err
	}
	e := &Evaluator{ch: ch, index: index}
	switch n := ch.Noise.(type) {
	case Tiled:
		if src == nil {
			return nil, fmt.Errorf("%w: channel %d: no blue noise source configured", ErrResource, index)
		}
		vol, err := src.Load(n.Resolution)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", index, err)
		}
		if vol.Size() != (core.Size{W: n.Resolution, H: n.Resolution, D: n.Resolution}) || vol.Channels() <= index {
			return nil, fmt.Errorf("%w: channel %d: blue noise volume is %s with %d channels, expected resolution %d",
				ErrResource, index, vol.Size(), vol.Channels(), n.Resolution)
		}
		e.tiled = vol
	case Simplex:
		e.simplex = noise.NewSimplex(ch.Seed, n.Octaves.Count)
	}
	return e, nil
}

// Channel returns the description the evaluator was built from.
func (e *Evaluator) Channel() Channel { return e.ch }

// Eval returns the post-processed channel value at pos.
func (e *Evaluator) Eval(pos mgl32.Vec3) float32 {
	return e.post(e.raw(pos))
}

func (e *Evaluator) raw(pos mgl32.Vec3) float32 {
	seed := e.ch.Seed
	switch n := e.ch.Noise.(type) {
	case Gradient:
		return noise.FBM(noise.Gradient{}, seed, pos, unitRepeat, n.Octaves)
	case Cellular:
		return noise.FBM(noise.Cellular{}, seed, pos, unitRepeat, n.Octaves)
	case Blend:
		gradient := noise.FBM(noise.Gradient{}, seed, pos, unitRepeat, n.Gradient)
		cellular := noise.FBM(noise.Cellular{}, seed, pos, unitRepeat, n.Cellular)
		return noise.LinearStep(cellular*n.CellularWeight, 1, gradient)
	case Tiled:
		return float32(SampleTiled(e.tiled, pos.Mul(1/float32(n.Zoom)), e.index)) / 256
	case Curl:
		f := n.Frequency
		return noise.Curl(seed, pos.Mul(f), mgl32.Vec3{f, f, f})[e.index]
	case Simplex:
		return noise.FBM(e.simplex, seed, pos, unitRepeat, n.Octaves)
	}
	return 0.5
}

func (e *Evaluator) post(v float32) float32 {
	if e.ch.Inverted {
		v = 1 - v
	}
	v = noise.Clamp01(v)
	exp := e.ch.PowerCurve
	if exp == 0 || exp == 1 {
		return v
	}
	return math32.Pow(v, math32.Max(exp, MinPowerCurve))
}

// SampleTiled reads channel c of a cubic tiled volume at a normalized
// position. Coordinates outside [0, 1) are clamped to the edge voxels.
func SampleTiled(v *core.Volume, pos mgl32.Vec3, c int) uint8 {
	s := v.Size()
	idx := func(p float32, n int) int {
		i := int(p * float32(n))
		return max(0, min(i, n-1))
	}
	return v.At(idx(pos[0], s.W), idx(pos[1], s.H), idx(pos[2], s.D), c)
}

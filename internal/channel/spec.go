// Package channel turns typed per-channel noise descriptions into scalar
// evaluators producing values in [0, 1].
package channel

import (
	"errors"
	"fmt"

	"volnoise/internal/noise"
)

var (
	// ErrConfig marks malformed or inconsistent channel descriptions.
	ErrConfig = errors.New("config error")
	// ErrResource marks missing or mismatched tiled noise data.
	ErrResource = errors.New("resource error")
)

// Kind names a noise mode as written in configuration files.
type Kind string

const (
	KindGradient Kind = "perlin"
	KindCellular Kind = "worley"
	KindBlend    Kind = "perlinWorley"
	KindTiled    Kind = "blueNoise"
	KindCurl     Kind = "curl"
	KindSimplex  Kind = "simplex"
)

// Kinds lists every supported mode.
func Kinds() []Kind {
	return []Kind{KindGradient, KindCellular, KindBlend, KindTiled, KindCurl, KindSimplex}
}

// MinPowerCurve is the smallest exponent applied during post-processing.
const MinPowerCurve = 1e-3

// Channel is an immutable description of one output channel. A zero
// PowerCurve means no curve (exponent 1); positive curves below MinPowerCurve
// are raised to it.
type Channel struct {
	Seed       uint32
	Noise      Noise
	Inverted   bool
	PowerCurve float32
}

// Noise is the mode-specific part of a channel. The set of implementations
// is closed: Gradient, Cellular, Blend, Tiled, Curl and Simplex.
type Noise interface {
	Kind() Kind
	validate(index int) error
}

// Gradient is fractal gradient noise.
type Gradient struct {
	Octaves noise.Octaves
}

// Cellular is fractal Worley noise.
type Cellular struct {
	Octaves noise.Octaves
}

// Blend thresholds gradient noise with a cellular cutoff, giving billowy
// cloud-like density.
type Blend struct {
	Gradient       noise.Octaves
	Cellular       noise.Octaves
	CellularWeight float32
}

// Tiled samples a precomputed tileable pattern at the given cubic resolution.
// Zoom divides the position to enlarge the pattern.
type Tiled struct {
	Resolution int
	Zoom       int
}

// Curl selects one component of divergence-free curl noise.
type Curl struct {
	Frequency float32
}

// Simplex is fractal OpenSimplex noise. It does not tile.
type Simplex struct {
	Octaves noise.Octaves
}

func (Gradient) Kind() Kind { return KindGradient }
func (Cellular) Kind() Kind { return KindCellular }
func (Blend) Kind() Kind    { return KindBlend }
func (Tiled) Kind() Kind    { return KindTiled }
func (Curl) Kind() Kind     { return KindCurl }
func (Simplex) Kind() Kind  { return KindSimplex }

func configErrorf(index int, format string, args ...any) error {
	return fmt.Errorf("%w: channel %d: %s", ErrConfig, index, fmt.Sprintf(format, args...))
}

func validateOctaves(index int, name string, o noise.Octaves) error {
	if o.Count < 0 {
		return configErrorf(index, "%s octave count %d is negative", name, o.Count)
	}
	if o.Count == 0 {
		return nil
	}
	if o.Frequency <= 0 {
		return configErrorf(index, "%s frequency %g must be positive", name, o.Frequency)
	}
	if o.Count > 1 && o.Lacunarity <= 0 {
		return configErrorf(index, "%s lacunarity %g must be positive", name, o.Lacunarity)
	}
	return nil
}

// Cellular periods are frequency*lacunarity^i and must stay within
// [1, noise.MaxCellularPeriod].
func validateCellularOctaves(index int, name string, o noise.Octaves) error {
	if err := validateOctaves(index, name, o); err != nil {
		return err
	}
	if o.Count > 0 && o.Frequency < 1 {
		return configErrorf(index, "%s frequency %g must be at least 1", name, o.Frequency)
	}
	if o.Count > 1 && o.Lacunarity < 1 {
		return configErrorf(index, "%s lacunarity %g must be at least 1", name, o.Lacunarity)
	}
	if f := o.FinalFrequency(); f > noise.MaxCellularPeriod {
		return configErrorf(index, "%s last octave frequency %g exceeds %d", name, f, noise.MaxCellularPeriod)
	}
	return nil
}

func (g Gradient) validate(index int) error {
	return validateOctaves(index, "perlin", g.Octaves)
}

func (c Cellular) validate(index int) error {
	return validateCellularOctaves(index, "worley", c.Octaves)
}

func (b Blend) validate(index int) error {
	if err := validateOctaves(index, "perlin", b.Gradient); err != nil {
		return err
	}
	return validateCellularOctaves(index, "worley", b.Cellular)
}

func (t Tiled) validate(index int) error {
	if t.Resolution <= 0 {
		return configErrorf(index, "blue noise resolution %d must be positive", t.Resolution)
	}
	if t.Zoom < 1 {
		return configErrorf(index, "zoom %d must be at least 1", t.Zoom)
	}
	if index >= 4 {
		return configErrorf(index, "blue noise has 4 channels")
	}
	return nil
}

func (c Curl) validate(index int) error {
	if c.Frequency <= 0 {
		return configErrorf(index, "curl frequency %g must be positive", c.Frequency)
	}
	if index >= 3 {
		return configErrorf(index, "curl noise has 3 components")
	}
	return nil
}

func (s Simplex) validate(index int) error {
	return validateOctaves(index, "simplex", s.Octaves)
}

// Validate checks the channel for use as output channel index.
func (c Channel) Validate(index int) error {
	if c.Noise == nil {
		return configErrorf(index, "no noise mode")
	}
	if c.PowerCurve < 0 || c.PowerCurve != c.PowerCurve {
		return configErrorf(index, "power curve %g must not be negative", c.PowerCurve)
	}
	return c.Noise.validate(index)
}

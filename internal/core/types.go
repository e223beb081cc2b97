package core

import "fmt"

// MaxChannels is the largest number of interleaved channels a volume holds.
const MaxChannels = 4

// Size describes the dimensions of a volume.
type Size struct {
	W int
	H int
	D int
}

// Voxels returns the number of voxels in a volume of this size.
func (s Size) Voxels() int { return s.W * s.H * s.D }

// Valid reports whether every dimension is positive.
func (s Size) Valid() bool { return s.W > 0 && s.H > 0 && s.D > 0 }

// String formats the size as WxHxD.
func (s Size) String() string { return fmt.Sprintf("%dx%dx%d", s.W, s.H, s.D) }

package core

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/dgravesa/go-parallel/parallel"
	"github.com/go-gl/mathgl/mgl32"
)

// Volume stores a 3D grid of byte-quantized multi-channel samples. Channels
// vary fastest, then x, then y, then z.
type Volume struct {
	size     Size
	channels int
	data     []uint8
}

// NewVolume allocates a zeroed volume. Non-positive dimensions are raised to
// 1 and the channel count is clamped to [1, MaxChannels].
func NewVolume(size Size, channels int) *Volume {
	if size.W <= 0 {
		size.W = 1
	}
	if size.H <= 0 {
		size.H = 1
	}
	if size.D <= 0 {
		size.D = 1
	}
	channels = max(1, min(channels, MaxChannels))
	return &Volume{size: size, channels: channels, data: make([]uint8, size.Voxels()*channels)}
}

// Size returns the volume dimensions.
func (v *Volume) Size() Size { return v.size }

// Channels returns the number of interleaved channels.
func (v *Volume) Channels() int { return v.channels }

// Bytes exposes the backing buffer in storage order.
func (v *Volume) Bytes() []uint8 { return v.data }

// Index returns the buffer offset of channel c at voxel (x, y, z). It panics
// when the coordinates fall outside the volume.
func (v *Volume) Index(x, y, z, c int) int {
	s := v.size
	if uint(x) >= uint(s.W) || uint(y) >= uint(s.H) || uint(z) >= uint(s.D) || uint(c) >= uint(v.channels) {
		panic(fmt.Sprintf("core: voxel (%d,%d,%d) channel %d outside %s volume with %d channels", x, y, z, c, s, v.channels))
	}
	return ((z*s.H+y)*s.W+x)*v.channels + c
}

// At returns the stored byte for channel c at voxel (x, y, z).
func (v *Volume) At(x, y, z, c int) uint8 { return v.data[v.Index(x, y, z, c)] }

// Set stores a byte for channel c at voxel (x, y, z).
func (v *Volume) Set(x, y, z, c int, b uint8) { v.data[v.Index(x, y, z, c)] = b }

// SliceLen returns the number of bytes in one xy slice.
func (v *Volume) SliceLen() int { return v.size.W * v.size.H * v.channels }

// Slice returns the interleaved bytes of the xy slice at depth z. The result
// aliases the volume buffer.
func (v *Volume) Slice(z int) []uint8 {
	if uint(z) >= uint(v.size.D) {
		panic(fmt.Sprintf("core: slice %d outside depth %d", z, v.size.D))
	}
	n := v.SliceLen()
	return v.data[z*n : (z+1)*n]
}

// SetSlice copies data into the xy slice at depth z. data must hold exactly
// one slice.
func (v *Volume) SetSlice(z int, data []uint8) error {
	if len(data) != v.SliceLen() {
		return fmt.Errorf("slice holds %d bytes, expected %d", len(data), v.SliceLen())
	}
	copy(v.Slice(z), data)
	return nil
}

// Process evaluates fn for every voxel and channel and stores the quantized
// result. fn receives the normalized position (x,y,z)/size in [0,1)^3 and the
// channel index. Slices are evaluated concurrently, so fn must be safe for
// concurrent use; each slice writes a disjoint part of the buffer.
func (v *Volume) Process(fn func(pos mgl32.Vec3, channel int) float32) {
	parallel.For(v.size.D, func(z, _ int) {
		v.processSlice(z, fn)
	})
}

func (v *Volume) processSlice(z int, fn func(pos mgl32.Vec3, channel int) float32) {
	s := v.size
	out := v.Slice(z)
	i := 0
	for y := 0; y < s.H; y++ {
		for x := 0; x < s.W; x++ {
			pos := mgl32.Vec3{
				float32(x) / float32(s.W),
				float32(y) / float32(s.H),
				float32(z) / float32(s.D),
			}
			for c := 0; c < v.channels; c++ {
				out[i] = UnormToByte(fn(pos, c))
				i++
			}
		}
	}
}

// UnormToByte quantizes v, clamped to [0, 1], into a byte. NaN maps to 0.
func UnormToByte(v float32) uint8 {
	if math32.IsNaN(v) {
		return 0
	}
	v = mgl32.Clamp(v, 0, 1)
	return uint8(math32.Floor(v * 255.99))
}

// ByteToUnorm maps a byte back to [0, 1].
func ByteToUnorm(b uint8) float32 {
	return float32(b) / 255
}

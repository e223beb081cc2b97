package noise

import (
	"math"

	"volnoise/pkg/core"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Cellular is tileable Worley (F1) noise: the distance from a position to the
// nearest feature point, one point per unit tile. Distances are capped at 1.
//
// repeat must lie in [1, MaxCellularPeriod] on every axis; other periods are
// not guarded.
type Cellular struct{}

// MaxCellularPeriod bounds the cellular repeat so wrapped tile coordinates
// stay exact integers in float32.
const MaxCellularPeriod = 1 << 20

// Sample returns the distance to the nearest feature point among the 27 tiles
// surrounding pos. Tile coordinates are wrapped into [0, repeat) before
// hashing, so feature points depend only on the wrapped tile identity.
func (Cellular) Sample(seed uint32, pos, repeat mgl32.Vec3) float32 {
	tile := mgl32.Vec3{math32.Floor(pos[0]), math32.Floor(pos[1]), math32.Floor(pos[2])}
	local := pos.Sub(tile)

	distance := float32(1)
	for z := -1; z <= 1; z++ {
		for y := -1; y <= 1; y++ {
			for x := -1; x <= 1; x++ {
				offset := mgl32.Vec3{float32(x), float32(y), float32(z)}
				feature := offset.Add(FeaturePoint(seed, tile.Add(offset), repeat))
				distance = math32.Min(distance, feature.Sub(local).Len())
			}
		}
	}
	return distance
}

// FeaturePoint returns the feature point offset in [0, 1]^3 for the tile at
// the given integer coordinates, after wrapping them by repeat.
func FeaturePoint(seed uint32, tile, repeat mgl32.Vec3) mgl32.Vec3 {
	wx := Wrap(tile[0], 0, repeat[0])
	wy := Wrap(tile[1], 0, repeat[1])
	wz := Wrap(tile[2], 0, repeat[2])

	// Linear tile index in integer arithmetic; overflow wraps modulo 2^32.
	rx, ry := uint32(repeat[0]), uint32(repeat[1])
	index := (uint32(wz)+ry*uint32(wy))*rx + uint32(wx)

	hx := core.Mix32(seed + index)
	hy := core.Mix32(hx)
	hz := core.Mix32(hy)
	const scale = float32(math.MaxUint32)
	return mgl32.Vec3{float32(hx) / scale, float32(hy) / scale, float32(hz) / scale}
}

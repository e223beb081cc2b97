package render

import "math"

// VectorSample is one arrow anchor: the voxel it reads and its screen center.
type VectorSample struct {
	X, Y   int
	SX, SY float64
}

// VectorGrid spaces roughly targetSamples anchors evenly over a w x h slice
// drawn at scale. It also returns the on-screen spacing between anchors.
func VectorGrid(w, h, scale int) ([]VectorSample, float64) {
	if w <= 0 || h <= 0 {
		return nil, 0
	}
	if scale <= 0 {
		scale = 1
	}

	const (
		targetSamples = 360.0
		minSpacing    = 4
		maxSpacing    = 20
	)

	spacing := int(math.Sqrt(float64(w*h) / targetSamples))
	spacing = max(minSpacing, min(spacing, maxSpacing))

	countX := (w + spacing - 1) / spacing
	countY := (h + spacing - 1) / spacing
	startX := max(0, (w-1-(countX-1)*spacing)/2)
	startY := max(0, (h-1-(countY-1)*spacing)/2)

	samples := make([]VectorSample, 0, countX*countY)
	for yi := 0; yi < countY; yi++ {
		y := min(startY+yi*spacing, h-1)
		for xi := 0; xi < countX; xi++ {
			x := min(startX+xi*spacing, w-1)
			samples = append(samples, VectorSample{
				X:  x,
				Y:  y,
				SX: (float64(x) + 0.5) * float64(scale),
				SY: (float64(y) + 0.5) * float64(scale),
			})
		}
	}
	return samples, float64(spacing * scale)
}

// VectorAt decodes channels 0 and 1 at (x, y) of a w-wide interleaved slice
// from [0, 255] into [-1, 1]. Slices with fewer than two channels have no
// vector field.
func VectorAt(slice []uint8, w, channels, x, y int) (vx, vy float64, ok bool) {
	if channels < 2 {
		return 0, 0, false
	}
	p := slice[(y*w+x)*channels:]
	return float64(p[0])/127.5 - 1, float64(p[1])/127.5 - 1, true
}

// Package tune measures generated volumes and searches description overrides
// for values that bring a channel closer to target statistics.
package tune

import (
	"math"

	"volnoise/internal/core"
)

// ChannelStats summarizes one channel of a volume in normalized units.
type ChannelStats struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	// Coverage is the fraction of voxels at or above the measure threshold.
	Coverage float64
}

// Measure computes per-channel statistics. threshold is in [0, 1].
func Measure(v *core.Volume, threshold float64) []ChannelStats {
	ch := v.Channels()
	data := v.Bytes()
	n := len(data) / ch
	out := make([]ChannelStats, ch)
	if n == 0 {
		return out
	}

	cut := threshold * 255
	for c := 0; c < ch; c++ {
		var sum, sumSq float64
		lo, hi := uint8(255), uint8(0)
		covered := 0
		for i := c; i < len(data); i += ch {
			b := data[i]
			f := float64(b)
			sum += f
			sumSq += f * f
			lo = min(lo, b)
			hi = max(hi, b)
			if f >= cut {
				covered++
			}
		}
		mean := sum / float64(n)
		variance := max(sumSq/float64(n)-mean*mean, 0)
		out[c] = ChannelStats{
			Mean:     mean / 255,
			StdDev:   math.Sqrt(variance) / 255,
			Min:      float64(lo) / 255,
			Max:      float64(hi) / 255,
			Coverage: float64(covered) / float64(n),
		}
	}
	return out
}

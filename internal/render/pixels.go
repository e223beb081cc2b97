package render

import (
	"image/color"
	"math"
)

// FillSliceRGBA converts an interleaved slice into opaque RGBA pixels in buf.
// With isolate 0 the first three channels map to red, green and blue (a
// single channel is drawn as gray); isolate k draws channel k-1 as gray. An
// isolated channel the slice does not have is drawn black.
func FillSliceRGBA(buf []byte, slice []uint8, channels, isolate int) {
	if channels <= 0 {
		return
	}
	n := len(slice) / channels
	for i := 0; i < n; i++ {
		p := slice[i*channels : (i+1)*channels]
		base := i * 4
		var r, g, b uint8
		switch {
		case isolate > 0 && isolate <= channels:
			r = p[isolate-1]
			g, b = r, r
		case isolate > 0:
		case channels == 1:
			r, g, b = p[0], p[0], p[0]
		case channels == 2:
			r, g = p[0], p[1]
		default:
			r, g, b = p[0], p[1], p[2]
		}
		buf[base+0] = r
		buf[base+1] = g
		buf[base+2] = b
		buf[base+3] = 0xff
	}
}

// FillPaletteRGBA maps channel c of an interleaved slice through a palette.
// Values past the end of the palette use its last entry. When the palette is
// empty the buffer is cleared to transparent black.
func FillPaletteRGBA(buf []byte, slice []uint8, channels, c int, palette []color.RGBA) {
	if channels <= 0 {
		return
	}
	n := len(slice) / channels
	if len(palette) == 0 || c < 0 || c >= channels {
		clear(buf[:n*4])
		return
	}

	last := len(palette) - 1
	for i := 0; i < n; i++ {
		idx := min(int(slice[i*channels+c]), last)
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// Stop is a palette anchor at position T in [0, 1].
type Stop struct {
	T   float64
	Col color.RGBA
}

// HeatStops runs from deep blue through green to pale yellow.
var HeatStops = []Stop{
	{0.0, color.RGBA{R: 40, G: 60, B: 120, A: 255}},
	{0.25, color.RGBA{R: 70, G: 105, B: 160, A: 255}},
	{0.5, color.RGBA{R: 90, G: 150, B: 100, A: 255}},
	{0.75, color.RGBA{R: 190, G: 160, B: 80, A: 255}},
	{1.0, color.RGBA{R: 240, G: 235, B: 215, A: 255}},
}

// Palette samples stops into a 256-entry palette indexed by byte value.
func Palette(stops []Stop) []color.RGBA {
	if len(stops) == 0 {
		return nil
	}
	out := make([]color.RGBA, 256)
	for i := range out {
		out[i] = colorAt(stops, float64(i)/255)
	}
	return out
}

func colorAt(stops []Stop, t float64) color.RGBA {
	t = clamp01(t)
	if t <= stops[0].T {
		return stops[0].Col
	}
	for i := 1; i < len(stops); i++ {
		curr := stops[i]
		if t <= curr.T {
			prev := stops[i-1]
			span := curr.T - prev.T
			var local float64
			if span > 0 {
				local = (t - prev.T) / span
			}
			return lerpRGBA(prev.Col, curr.Col, clamp01(local))
		}
	}
	return stops[len(stops)-1].Col
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: lerpComponent(a.R, b.R, t),
		G: lerpComponent(a.G, b.G, t),
		B: lerpComponent(a.B, b.B, t),
		A: lerpComponent(a.A, b.A, t),
	}
}

func lerpComponent(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// SlicePainter uploads one z-slice at a time into a single RGBA image.
type SlicePainter struct {
	w, h    int
	img     *ebiten.Image
	buf     []byte
	palette []color.RGBA
}

// NewSlicePainter allocates a painter for w x h slices.
func NewSlicePainter(w, h int) *SlicePainter {
	return &SlicePainter{
		w:       w,
		h:       h,
		img:     ebiten.NewImage(w, h),
		buf:     make([]byte, 4*w*h),
		palette: Palette(HeatStops),
	}
}

// Blit uploads slice and draws it scaled. isolate selects a channel as in
// FillSliceRGBA; heat maps an isolated channel through the heat palette.
func (sp *SlicePainter) Blit(dst *ebiten.Image, slice []uint8, channels, isolate int, heat bool, scale int) {
	if channels <= 0 || len(slice) != sp.w*sp.h*channels {
		return
	}
	if heat && isolate > 0 {
		FillPaletteRGBA(sp.buf, slice, channels, isolate-1, sp.palette)
	} else {
		FillSliceRGBA(sp.buf, slice, channels, isolate)
	}
	sp.img.WritePixels(sp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(sp.img, op)
}

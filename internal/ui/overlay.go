//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"volnoise/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay draws the first two channels of the current slice as a vector
// field, which suits curl noise volumes. V toggles it.
type Overlay struct {
	w, h    int
	scale   int
	show    bool
	pixel   *ebiten.Image
	samples []render.VectorSample
	span    float64
}

// NewOverlay constructs an overlay for w x h slices drawn at scale.
func NewOverlay(w, h, scale int) *Overlay {
	o := &Overlay{w: w, h: h, scale: max(scale, 1)}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	o.samples, o.span = render.VectorGrid(w, h, o.scale)
	return o
}

// Update handles the overlay toggle.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		o.show = !o.show
	}
}

// Draw renders arrows for slice when the overlay is shown.
func (o *Overlay) Draw(screen *ebiten.Image, slice []uint8, channels int) {
	if !o.show || channels < 2 || len(slice) != o.w*o.h*channels {
		return
	}

	const (
		calmThreshold = 0.05
		headAngle     = math.Pi / 6
		minThickness  = 0.65
		maxThickness  = 1.05
	)

	scale := float64(o.scale)
	minLength := o.span * 0.35
	maxLength := max(o.span*0.7, minLength)
	calmDot := max(o.span*0.18, scale*0.75)

	for _, s := range o.samples {
		vx, vy, ok := render.VectorAt(slice, o.w, channels, s.X, s.Y)
		if !ok {
			return
		}
		speed := math.Hypot(vx, vy)
		if speed < calmThreshold {
			o.drawPoint(screen, s.SX, s.SY, calmDot, color.RGBA{R: 90, G: 130, B: 170, A: 120})
			continue
		}

		nx, ny := vx/speed, vy/speed
		normalized := math.Min(speed/math.Sqrt2, 1)
		length := minLength + (maxLength-minLength)*math.Sqrt(normalized)
		headLength := math.Min(length*0.3, scale*4.5)
		tailLength := length * 0.4
		tipX := s.SX + nx*(length-tailLength)
		tipY := s.SY + ny*(length-tailLength)
		tailX := s.SX - nx*tailLength
		tailY := s.SY - ny*tailLength

		thickness := math.Max(scale*(minThickness+(maxThickness-minThickness)*normalized), 1)
		col := arrowColor(normalized)
		o.drawLine(screen, tailX, tailY, tipX-nx*headLength, tipY-ny*headLength, thickness, col)

		angle := math.Atan2(ny, nx)
		o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle+headAngle)*headLength, tipY-math.Sin(angle+headAngle)*headLength, thickness*0.85, col)
		o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle-headAngle)*headLength, tipY-math.Sin(angle-headAngle)*headLength, thickness*0.85, col)
	}
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size*0.5, y-size*0.5)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 || thickness <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func arrowColor(t float64) color.RGBA {
	return color.RGBA{
		R: uint8(math.Round(80 + 70*t)),
		G: uint8(math.Round(170 + 70*t)),
		B: uint8(math.Round(230 + 20*t)),
		A: uint8(math.Round(150 + 90*t)),
	}
}

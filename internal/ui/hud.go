//go:build ebiten

package ui

import (
	"image/color"

	"volnoise/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the parameter panel to the right of the slice view.
type HUD struct {
	width      int
	panel      *ebiten.Image
	lastHeight int
	lines      []Line
	status     string
}

// NewHUD constructs a HUD for a snapshot and panel width.
func NewHUD(snap core.ParameterSnapshot, width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{width: width, lines: Lines(snap)}
}

// Update replaces the status line shown under the title.
func (h *HUD) Update(status string) {
	if h == nil {
		return
	}
	h.status = status
}

// Draw paints the panel at offsetX with the given height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawLines()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawLines() {
	face := basicfont.Face7x13
	maxChars := (h.width - 2*panelPadding) / charWidth

	y := panelPadding + headerBaseline
	text.Draw(h.panel, Truncate(h.status, maxChars), face, panelPadding, y, color.RGBA{R: 200, G: 200, B: 210, A: 255})
	y += infoSpacing

	for _, l := range h.lines {
		if y > h.lastHeight-panelPadding {
			return
		}
		if l.Header {
			y += groupGap
			text.Draw(h.panel, Truncate(l.Label, maxChars), face, panelPadding, y, color.RGBA{R: 150, G: 190, B: 230, A: 255})
			y += lineHeight
			continue
		}
		value := Truncate(l.Value, maxChars/2)
		bounds := text.BoundString(face, value)
		label := Truncate(l.Label, maxChars-len(value)-1)
		text.Draw(h.panel, label, face, panelPadding, y, color.RGBA{R: 220, G: 220, B: 230, A: 255})
		text.Draw(h.panel, value, face, h.width-panelPadding-bounds.Dx(), y, color.RGBA{R: 160, G: 160, B: 170, A: 255})
		y += lineHeight
	}
}

const (
	panelPadding   = 12
	lineHeight     = 16
	groupGap       = 8
	charWidth      = 7
	headerBaseline = 18
	infoSpacing    = 22
)

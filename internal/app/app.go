//go:build ebiten

package app

import (
	"fmt"

	"volnoise/internal/config"
	"volnoise/internal/core"
	"volnoise/internal/render"
	"volnoise/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// hudWidth is the width of the parameter panel in screen pixels.
const hudWidth = 260

var isolateKeys = []ebiten.Key{ebiten.KeyDigit0, ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4}

// Game shows a generated volume one z-slice at a time.
type Game struct {
	cfg     *config.Config
	vol     *core.Volume
	painter *render.SlicePainter
	hud     *ui.HUD
	overlay *ui.Overlay
	clock   *core.SliceClock

	scale   int
	z       int
	auto    bool
	isolate int
	heat    bool
}

// New constructs a Game for a generated volume.
func New(cfg *config.Config, vol *core.Volume, scale, rate int) *Game {
	size := vol.Size()
	if scale <= 0 {
		scale = 1
	}
	return &Game{
		cfg:     cfg,
		vol:     vol,
		painter: render.NewSlicePainter(size.W, size.H),
		hud:     ui.NewHUD(cfg.Parameters(), hudWidth),
		overlay: ui.NewOverlay(size.W, size.H, scale),
		clock:   core.NewSliceClock(rate),
		scale:   scale,
	}
}

// Update handles input and advances the slice cursor while auto-advancing.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.auto = !g.auto
		g.clock.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		g.step(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		g.step(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.heat = !g.heat
	}
	for i, k := range isolateKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.isolate = i
		}
	}
	g.overlay.Update()

	if g.auto {
		g.step(g.clock.Advance())
	}
	g.hud.Update(g.status())
	return nil
}

func (g *Game) step(n int) {
	d := g.vol.Size().D
	g.z = ((g.z+n)%d + d) % d
}

func (g *Game) status() string {
	view := "all"
	if g.isolate > 0 {
		view = fmt.Sprintf("ch %d", g.isolate-1)
		if g.heat {
			view += " heat"
		}
	}
	return fmt.Sprintf("%s  z %d/%d  %s", g.cfg.Name, g.z, g.vol.Size().D-1, view)
}

// Draw renders the current slice, the vector overlay and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	slice := g.vol.Slice(g.z)
	g.painter.Blit(screen, slice, g.vol.Channels(), g.isolate, g.heat, g.scale)
	g.overlay.Draw(screen, slice, g.vol.Channels())
	size := g.vol.Size()
	g.hud.Draw(screen, size.W*g.scale, size.H*g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.vol.Size()
	return s.W*g.scale + hudWidth, s.H * g.scale
}

//go:build ebiten

package app

import (
	"time"

	"hivsim/internal/core"
	"hivsim/internal/render"
	"hivsim/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	opts    Options
	grid    *core.ByteGrid
	painter *render.GridPainter
	hud     *ui.HUD
	timer   *core.FixedStep

	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, opts Options) *Game {
	opts = opts.normalized()
	size := sim.Size()
	return &Game{
		sim:     sim,
		opts:    opts,
		grid:    core.NewByteGrid(size.W, size.H),
		painter: render.NewGridPainter(size.W, size.H),
		hud:     ui.NewHUD(sim, opts.PanelWidth),
		timer:   core.NewFixedStep(opts.StepsPerSecond),
		seed:    opts.Seed,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) error {
	g.seed = seed
	g.tickOnce = false
	return g.sim.Reset(seed)
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.Reset(g.seed); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := g.Reset(time.Now().UnixNano()); err != nil {
			return err
		}
	}

	switch {
	case g.tickOnce:
		g.sim.Step()
		g.tickOnce = false
	case !g.paused:
		for n := g.timer.Due(maxStepsPerFrame); n > 0 && !g.sim.Done(); n-- {
			g.sim.Step()
		}
	}
	g.hud.Update(g.paused)
	return nil
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.grid.Load(g.sim.Cells(), render.PadCell)
	g.painter.Blit(screen, g.grid.Cells(), g.opts.Scale)
	g.hud.Draw(screen, g.sim.Size().W*g.opts.Scale, g.opts.Scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.opts.ScreenSize(g.sim.Size())
}

const maxStepsPerFrame = 8

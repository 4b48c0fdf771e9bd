//go:build ebiten

package ui

import (
	"image/color"

	"hivsim/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the run status and parameter panel to the right of the
// population view.
type HUD struct {
	sim        core.Sim
	width      int
	panel      *ebiten.Image
	lastHeight int

	title  string
	params []string
	status []string
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{sim: sim, width: width, title: title(sim)}
}

// Update refreshes the status lines and, for sims that describe their
// configuration, the parameter lines.
func (h *HUD) Update(paused bool) {
	if h == nil {
		return
	}
	h.status = StatusLines(h.sim, paused)
	if provider, ok := h.sim.(core.ParameterProvider); ok {
		h.params = ParameterLines(provider.Parameters())
	}
}

// Draw paints the HUD panel anchored at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	height := max(h.sim.Size().H*scale, PanelMinHeight)
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})

	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, h.title, face, panelPadding, y, headerColor)
	y += lineHeight
	for _, line := range h.status {
		y += lineHeight
		text.Draw(h.panel, line, face, panelPadding, y, valueColor)
	}
	y += lineHeight
	for _, line := range h.params {
		y += lineHeight
		if y > height-panelPadding {
			break
		}
		text.Draw(h.panel, line, face, panelPadding, y, labelColor)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

var (
	headerColor = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	valueColor  = color.RGBA{R: 235, G: 235, B: 240, A: 255}
	labelColor  = color.RGBA{R: 160, G: 160, B: 170, A: 255}
)

const (
	panelPadding   = 12
	lineHeight     = 16
	headerBaseline = 18
)

//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter uploads cell values to a texture and draws it scaled.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewGridPainter allocates a painter for a w*h grid.
func NewGridPainter(w, h int) *GridPainter {
	return &GridPainter{
		w:   w,
		h:   h,
		img: ebiten.NewImage(w, h),
		buf: make([]byte, w*h*4),
	}
}

// Blit draws a full grid of cells through SeverityPalette onto screen at the
// given scale. Cells beyond the grid are ignored.
func (p *GridPainter) Blit(screen *ebiten.Image, cells []uint8, scale int) {
	n := min(len(cells), p.w*p.h)
	fillPaletteRGBA(p.buf, cells[:n], SeverityPalette)
	p.img.WritePixels(p.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(p.img, op)
}

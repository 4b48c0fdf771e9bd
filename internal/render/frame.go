package render

import (
	"image"

	"golang.org/x/image/draw"

	"hivsim/internal/core"
)

// Frame lays cells out on a size grid and renders them through
// SeverityPalette at scale pixels per cell. Grid positions past the last
// cell are drawn as padding.
func Frame(cells []uint8, size core.Size, scale int) *image.RGBA {
	if scale <= 0 {
		scale = 1
	}
	grid := core.NewByteGrid(size.W, size.H)
	grid.Load(cells, PadCell)

	src := image.NewRGBA(image.Rect(0, 0, grid.W, grid.H))
	fillPaletteRGBA(src.Pix, grid.Cells(), SeverityPalette)
	if scale == 1 {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, grid.W*scale, grid.H*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

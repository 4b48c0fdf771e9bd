package render

import "image/color"

// SeverityPalette colours agents by infection severity: susceptible agents
// are dark, primary infection is bright red and later stages darken towards
// purple. Index 6 is used for padding cells past the last agent.
var SeverityPalette = []color.RGBA{
	{R: 28, G: 40, B: 52, A: 255},
	{R: 235, G: 64, B: 52, A: 255},
	{R: 214, G: 48, B: 84, A: 255},
	{R: 176, G: 38, B: 110, A: 255},
	{R: 128, G: 30, B: 128, A: 255},
	{R: 84, G: 22, B: 110, A: 255},
	{R: 0, G: 0, B: 0, A: 0},
}

// PadCell is the cell value used for grid positions without an agent.
const PadCell uint8 = 6

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:len(cells)*4])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		col := palette[min(int(c), last)]
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

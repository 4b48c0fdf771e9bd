package core

import "math"

// ByteGrid stores a 2D grid of byte-sized cell values in row-major order.
type ByteGrid struct {
	W, H int
	data []uint8
}

// NewByteGrid allocates a grid with the given dimensions.
func NewByteGrid(w, h int) *ByteGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &ByteGrid{W: w, H: h, data: make([]uint8, w*h)}
}

// LayoutFor returns the smallest near-square grid holding n cells.
func LayoutFor(n int) Size {
	if n <= 0 {
		return Size{W: 1, H: 1}
	}
	w := int(math.Ceil(math.Sqrt(float64(n))))
	h := (n + w - 1) / w
	return Size{W: w, H: h}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *ByteGrid) Index(x, y int) int { return y*g.W + x }

// Load copies values into the grid in row-major order. Cells past the end of
// values are set to pad.
func (g *ByteGrid) Load(values []uint8, pad uint8) {
	n := copy(g.data, values)
	for i := n; i < len(g.data); i++ {
		g.data[i] = pad
	}
}

// Clear fills the grid with zeros.
func (g *ByteGrid) Clear() {
	for i := range g.data {
		g.data[i] = 0
	}
}

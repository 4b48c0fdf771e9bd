package app

import (
	"hivsim/internal/core"
	"hivsim/internal/ui"
)

// Options configures the viewer window.
type Options struct {
	// Scale is the on-screen size of one agent in pixels.
	Scale int
	// StepsPerSecond paces the simulation independently of the frame rate.
	StepsPerSecond int
	PanelWidth     int
	Seed           int64
}

// DefaultOptions returns the viewer defaults.
func DefaultOptions() Options {
	return Options{Scale: 4, StepsPerSecond: 30, PanelWidth: 280}
}

func (o Options) normalized() Options {
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.StepsPerSecond <= 0 {
		o.StepsPerSecond = 30
	}
	if o.PanelWidth < 0 {
		o.PanelWidth = 0
	}
	return o
}

// ScreenSize returns the window size for a grid of the given size, including
// the parameter panel.
func (o Options) ScreenSize(size core.Size) (int, int) {
	o = o.normalized()
	w := size.W*o.Scale + o.PanelWidth
	h := size.H * o.Scale
	if o.PanelWidth > 0 {
		h = max(h, ui.PanelMinHeight)
	}
	return w, h
}

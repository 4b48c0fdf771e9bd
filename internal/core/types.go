package core

import "sort"

// Size describes the dimensions of the grid a population is laid out on for display.
type Size struct {
	W int
	H int
}

// Sim defines the minimal contract a population model must implement to be
// driven by the viewer and listed by the CLI.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64) error
	Step()
	// Cells exposes one value per agent; the viewer maps it through a palette.
	Cells() []uint8
	// Done reports whether the configured duration has elapsed.
	Done() bool
}

// Factory constructs a Sim from flag-style key/value overrides.
type Factory func(cfg map[string]string) (Sim, error)

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}

// Names returns the registered simulation names in sorted order.
func Names() []string {
	names := make([]string, 0, len(sims))
	for name := range sims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

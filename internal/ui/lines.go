package ui

import (
	"fmt"
	"strings"

	"hivsim/internal/core"
)

// PanelMinHeight is the smallest height the parameter panel is drawn at.
const PanelMinHeight = 360

// progressProvider is implemented by sims that advance through simulated time.
type progressProvider interface {
	StepIndex() int
	NumSteps() int
	Date() float64
	Prevalence() float64
}

// StatusLines describes where the sim is in its run. Sims without progress
// information only report whether they are done.
func StatusLines(sim core.Sim, paused bool) []string {
	state := "running"
	switch {
	case sim.Done():
		state = "done"
	case paused:
		state = "paused"
	}
	p, ok := sim.(progressProvider)
	if !ok {
		return []string{"State: " + state}
	}
	return []string{
		fmt.Sprintf("Step: %d / %d", p.StepIndex(), p.NumSteps()),
		fmt.Sprintf("Date: %.3f", p.Date()),
		fmt.Sprintf("Prevalence: %.4f", p.Prevalence()),
		"State: " + state,
	}
}

// ParameterLines flattens a snapshot into "label: value" lines with one
// heading per group.
func ParameterLines(snap core.ParameterSnapshot) []string {
	var lines []string
	for _, g := range snap.Groups {
		heading := strings.ToUpper(g.Name)
		if g.Summary != "" {
			heading += " (" + g.Summary + ")"
		}
		lines = append(lines, heading)
		for _, p := range g.Params {
			lines = append(lines, "  "+p.Label+": "+p.Value)
		}
	}
	return lines
}

func title(sim core.Sim) string {
	if sim == nil || sim.Name() == "" {
		return "Parameters"
	}
	return strings.ToUpper(sim.Name()) + " Parameters"
}

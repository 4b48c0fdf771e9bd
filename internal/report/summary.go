package report

import (
	"fmt"
	"io"
	"strconv"

	"hivsim/internal/core"
	"hivsim/internal/population"
)

// PrintSummary writes demographic statistics in the console layout:
// males, youngest, oldest, average age, then one line per severity level.
func PrintSummary(w io.Writer, st population.Stats) error {
	lines := []string{
		fmt.Sprintf("Males: %d", st.Males),
		"Youngest: " + formatAge(st.Youngest),
		"Oldest: " + formatAge(st.Oldest),
		"Average age: " + formatAge(st.MeanAge),
	}
	for i, n := range st.BySeverity {
		lines = append(lines, fmt.Sprintf("HIV %d %d", i, n))
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

func formatAge(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// PrintParameters writes a parameter snapshot grouped by section.
func PrintParameters(w io.Writer, snap core.ParameterSnapshot) error {
	for i, g := range snap.Groups {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		header := g.Name
		if g.Summary != "" {
			header += " (" + g.Summary + ")"
		}
		if _, err := fmt.Fprintln(w, header); err != nil {
			return err
		}
		for _, p := range g.Params {
			if _, err := fmt.Fprintf(w, "  %-20s %-28s %s\n", p.Key, p.Label, p.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

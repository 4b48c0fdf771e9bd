package report

import (
	"fmt"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"hivsim/internal/sims/hiv"
)

// ChartSink collects prevalence over time and renders it as a PNG on Close.
type ChartSink struct {
	path   string
	dates  []float64
	values []float64
}

// NewChartSink returns a sink that writes a prevalence chart to path.
func NewChartSink(path string) *ChartSink {
	return &ChartSink{path: path}
}

func (s *ChartSink) Write(r hiv.Report) error {
	s.dates = append(s.dates, r.Date)
	s.values = append(s.values, r.Prevalence)
	return nil
}

// Points returns the number of collected reports.
func (s *ChartSink) Points() int { return len(s.dates) }

// Close renders the chart. Fewer than two points cannot form a line, so no
// file is written.
func (s *ChartSink) Close() error {
	if len(s.dates) < 2 {
		return nil
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	graph := chart.Chart{
		Width:  800,
		Height: 400,
		XAxis: chart.XAxis{
			Name:  "date",
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.2f", v.(float64))
			},
		},
		YAxis: chart.YAxis{
			Name:  "prevalence",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "prevalence",
				XValues: s.dates,
				YValues: s.values,
				Style:   chart.Style{StrokeColor: drawing.Color{R: 200, G: 30, B: 45, A: 255}, StrokeWidth: 2.0},
			},
		},
	}
	if err := graph.Render(chart.PNG, f); err != nil {
		f.Close()
		return fmt.Errorf("render chart: %w", err)
	}
	return f.Close()
}

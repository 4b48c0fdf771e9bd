package hiv

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"hivsim/internal/population"
	"hivsim/pkg/core"
)

// Report is the per-step output of a run.
type Report struct {
	Step       int
	Date       float64
	Infected   int
	Prevalence float64
}

// ReportFunc receives one Report per step, in step order. Returning an error
// stops the run.
type ReportFunc func(Report) error

// NumSteps returns how many steps cover p.NumYears. Fractional remainders are
// truncated, so the last date may fall short of StartDate+NumYears.
func NumSteps(p Params) int {
	return int(p.NumYears / p.TimeStep)
}

// DateAt returns the simulated date after step i.
func DateAt(p Params, i int) float64 {
	return p.StartDate + float64(i)*p.TimeStep
}

func reportFor(p Params, pop *population.Population, i int) Report {
	infected := pop.Infected()
	prevalence := 0.0
	if n := pop.Len(); n > 0 {
		prevalence = float64(infected) / float64(n)
	}
	return Report{Step: i, Date: DateAt(p, i), Infected: infected, Prevalence: prevalence}
}

// Run advances pop through NumSteps(p) steps, drawing from rng, and calls
// report after each one. It returns the same population, mutated in place.
// Parameters are validated before the first step.
func Run(pop *population.Population, p Params, rng *core.RNG, report ReportFunc, logger *log.Logger) (*population.Population, error) {
	if pop == nil {
		return nil, errors.New("run: nil population")
	}
	if rng == nil {
		return nil, errors.New("run: nil rng")
	}
	engine, err := NewEngine(p, rng, logger)
	if err != nil {
		return nil, err
	}
	m := &Model{
		cfg:    Config{PopulationSize: pop.Len(), Params: p},
		logger: engine.logger,
		rng:    rng,
		pop:    pop,
		engine: engine,
		steps:  NumSteps(p),
	}
	if err := m.Run(report); err != nil {
		return pop, err
	}
	return pop, nil
}

// Run steps the model until Done, reporting after each step.
func (m *Model) Run(report ReportFunc) error {
	m.logger.Debug("run started", "agents", m.pop.Len(), "steps", m.steps, "from", m.step, "prevalence", m.pop.Prevalence())
	for !m.Done() {
		m.Step()
		if report == nil {
			continue
		}
		if err := report(m.Report()); err != nil {
			return fmt.Errorf("report step %d: %w", m.step, err)
		}
	}
	m.logger.Debug("run finished", "steps", m.step, "infected", m.pop.Infected(), "prevalence", m.pop.Prevalence())
	return nil
}

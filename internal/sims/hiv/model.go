package hiv

import (
	"io"

	"github.com/charmbracelet/log"

	icore "hivsim/internal/core"
	"hivsim/internal/population"
	"hivsim/pkg/core"
)

// Model owns a population, its random stream and the step engine for one run.
type Model struct {
	cfg    Config
	logger *log.Logger

	rng    *core.RNG
	pop    *population.Population
	engine *Engine

	step  int
	steps int
	last  StepResult
	total int
}

// New validates cfg and returns a Model reset with cfg.Seed. A nil logger
// discards output.
func New(cfg Config, logger *log.Logger) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := &Model{cfg: cfg, logger: logger}
	if err := m.Reset(cfg.Seed); err != nil {
		return nil, err
	}
	return m, nil
}

// Name returns the simulation identifier.
func (m *Model) Name() string { return "hiv" }

// Size reports the display grid the population is laid out on.
func (m *Model) Size() icore.Size { return icore.LayoutFor(m.cfg.PopulationSize) }

// Cells exposes the severity of every agent in storage order.
func (m *Model) Cells() []uint8 { return m.pop.Severity() }

// Reset rebuilds the population from a fresh stream. A zero seed falls back
// to the configured seed.
func (m *Model) Reset(seed int64) error {
	effective := seed
	if effective == 0 {
		effective = m.cfg.Seed
	}
	rng := core.NewRNG(effective)
	pop, err := population.Create(m.cfg.PopulationSize, m.cfg.Population, rng)
	if err != nil {
		return err
	}
	engine, err := NewEngine(m.cfg.Params, rng, m.logger)
	if err != nil {
		return err
	}
	m.rng = rng
	m.pop = pop
	m.engine = engine
	m.step = 0
	m.steps = NumSteps(m.cfg.Params)
	m.last = StepResult{}
	m.total = 0
	return nil
}

// Step applies one engine step unless the run is complete.
func (m *Model) Step() {
	if m.Done() {
		return
	}
	m.last = m.engine.Step(m.pop)
	m.total += m.last.NewInfections
	m.step++
}

// Done reports whether every step has been taken.
func (m *Model) Done() bool { return m.step >= m.steps }

// Report describes the population after the latest step.
func (m *Model) Report() Report { return reportFor(m.cfg.Params, m.pop, m.step) }

// LastStep returns the result of the most recent step.
func (m *Model) LastStep() StepResult { return m.last }

// NewInfections returns the number of infections since Reset.
func (m *Model) NewInfections() int { return m.total }

// StepIndex returns how many steps have been taken.
func (m *Model) StepIndex() int { return m.step }

// NumSteps returns the number of steps the run will take.
func (m *Model) NumSteps() int { return m.steps }

// Date returns the simulated date after the latest step.
func (m *Model) Date() float64 { return DateAt(m.cfg.Params, m.step) }

// Prevalence returns the current infected fraction.
func (m *Model) Prevalence() float64 { return m.pop.Prevalence() }

// Population exposes the agent table.
func (m *Model) Population() *population.Population { return m.pop }

// Config returns the configuration the model was built with.
func (m *Model) Config() Config { return m.cfg }

func init() {
	icore.Register("hiv", func(cfg map[string]string) (icore.Sim, error) {
		c, err := FromMap(cfg)
		if err != nil {
			return nil, err
		}
		m, err := New(c, nil)
		if err != nil {
			return nil, err
		}
		return m, nil
	})
}

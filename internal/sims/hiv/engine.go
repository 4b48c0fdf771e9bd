package hiv

import (
	"io"

	"github.com/charmbracelet/log"

	"hivsim/internal/population"
	"hivsim/pkg/core"
)

// StepResult reports what one step did to the population.
type StepResult struct {
	// Prevalence is the snapshot taken before any agent was updated.
	Prevalence float64
	// Risk is the per-agent infection probability applied during the step.
	Risk float64
	// Clamped is set when the computed risk fell outside [0,1].
	Clamped       bool
	NewInfections int
}

// Engine applies the aging and mean-field infection events.
type Engine struct {
	params Params
	rng    *core.RNG
	logger *log.Logger

	warned bool
}

// NewEngine validates p and returns an Engine drawing from rng. A nil logger
// discards output.
func NewEngine(p Params, rng *core.RNG, logger *log.Logger) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{params: p, rng: rng, logger: logger}, nil
}

// Params returns the engine's parameters.
func (e *Engine) Params() Params { return e.params }

// InfectionRisk returns force_infection * prob_new_partner * prevalence and
// whether it had to be clamped into [0,1].
func (e *Engine) InfectionRisk(prevalence float64) (float64, bool) {
	risk := e.params.ForceInfection * e.params.ProbNewPartner * prevalence
	switch {
	case risk > 1:
		return 1, true
	case risk < 0:
		return 0, true
	}
	return risk, false
}

// Step advances pop by one time step in place.
//
// Prevalence is sampled before any update so that every susceptible agent
// faces the risk implied by the previous step. Each susceptible agent draws
// one uniform value from the engine's stream in storage order.
func (e *Engine) Step(pop *population.Population) StepResult {
	if e.params.Shuffle {
		pop.Permute(e.rng)
	}

	res := StepResult{Prevalence: pop.Prevalence()}
	res.Risk, res.Clamped = e.InfectionRisk(res.Prevalence)
	if res.Clamped && !e.warned {
		e.warned = true
		e.logger.Warn("infection risk outside [0,1]; clamping",
			"force_infection", e.params.ForceInfection,
			"prob_new_partner", e.params.ProbNewPartner,
			"prevalence", res.Prevalence,
			"risk", res.Risk)
	}

	sev := pop.Severity()
	for i, s := range sev {
		if s != 0 {
			continue
		}
		if e.rng.Bernoulli(res.Risk) {
			sev[i] = 1
			res.NewInfections++
		}
	}

	ages := pop.Ages()
	for i := range ages {
		ages[i] += e.params.TimeStep
	}
	return res
}

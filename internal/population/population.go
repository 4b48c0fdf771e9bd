// Package population holds the agent table for a simulation run as parallel
// attribute slices indexed by position.
package population

import (
	"errors"
	"fmt"
	"math"

	"hivsim/pkg/core"
)

// Sex enumerates the biological sex of an agent.
type Sex uint8

const (
	Male Sex = iota
	Female
)

func (s Sex) String() string {
	if s == Female {
		return "female"
	}
	return "male"
}

// MaxSeverity is the highest infection stage an agent can hold.
// 0 = susceptible, 1 = primary infection, 2..5 = later disease stages.
const MaxSeverity = 5

// ErrInvalidSize is returned when a population is requested with n <= 0.
var ErrInvalidSize = errors.New("population size must be positive")

// ErrInvalidOptions is wrapped by every rejected Options or agent row.
var ErrInvalidOptions = errors.New("invalid population options")

// Options controls how initial agent attributes are drawn.
type Options struct {
	// AgeMin and AgeMax bound the uniform age draw, [AgeMin, AgeMax).
	AgeMin float64
	AgeMax float64
	// MaleFraction is the probability an agent is male.
	MaleFraction float64
	// SeveritySuccess is the success probability of the geometric draw used
	// for initial severity. 1 leaves every agent susceptible.
	SeveritySuccess float64
}

// DefaultOptions returns the baseline demographics: ages 15-20, even sex split
// and mostly susceptible agents.
func DefaultOptions() Options {
	return Options{AgeMin: 15, AgeMax: 20, MaleFraction: 0.5, SeveritySuccess: 0.9}
}

// Validate checks that the draws produce non-negative ages, a sex split and a
// severity distribution that stays mostly susceptible.
func (o Options) Validate() error {
	switch {
	case !(o.AgeMin >= 0) || math.IsInf(o.AgeMin, 0):
		return fmt.Errorf("age_min=%g must be non-negative and finite: %w", o.AgeMin, ErrInvalidOptions)
	case !(o.AgeMax > o.AgeMin) || math.IsInf(o.AgeMax, 0):
		return fmt.Errorf("age_max=%g must be finite and above age_min=%g: %w", o.AgeMax, o.AgeMin, ErrInvalidOptions)
	case !(o.MaleFraction >= 0 && o.MaleFraction <= 1):
		return fmt.Errorf("male_fraction=%g must be within [0,1]: %w", o.MaleFraction, ErrInvalidOptions)
	case !(o.SeveritySuccess > 0 && o.SeveritySuccess <= 1):
		return fmt.Errorf("severity success=%g must be within (0,1]: %w", o.SeveritySuccess, ErrInvalidOptions)
	}
	return nil
}

// Population stores every agent of a run. The slices always have equal length.
type Population struct {
	ids      []int
	sex      []Sex
	age      []float64
	severity []uint8
}

// Create builds n agents drawing sex, age and initial severity from rng, in
// that order per agent.
func Create(n int, opts Options, rng *core.RNG) (*Population, error) {
	if n <= 0 {
		return nil, fmt.Errorf("create population of %d: %w", n, ErrInvalidSize)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("create population: %w", err)
	}
	p := &Population{
		ids:      make([]int, n),
		sex:      make([]Sex, n),
		age:      make([]float64, n),
		severity: make([]uint8, n),
	}
	for i := 0; i < n; i++ {
		p.ids[i] = i
		if rng.Bernoulli(opts.MaleFraction) {
			p.sex[i] = Male
		} else {
			p.sex[i] = Female
		}
		p.age[i] = rng.Uniform(opts.AgeMin, opts.AgeMax)
		p.severity[i] = uint8(rng.Geometric(opts.SeveritySuccess, MaxSeverity))
	}
	return p, nil
}

// Len returns the agent count.
func (p *Population) Len() int {
	if p == nil {
		return 0
	}
	return len(p.ids)
}

// IDs exposes agent identifiers in storage order.
func (p *Population) IDs() []int { return p.ids }

// Sexes exposes the sex column.
func (p *Population) Sexes() []Sex { return p.sex }

// Ages exposes the age column for in-place updates.
func (p *Population) Ages() []float64 { return p.age }

// Severity exposes the infection severity column for in-place updates.
func (p *Population) Severity() []uint8 { return p.severity }

// Infected counts agents with severity above zero.
func (p *Population) Infected() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, s := range p.severity {
		if s > 0 {
			n++
		}
	}
	return n
}

// Prevalence returns the fraction of infected agents, or 0 for an empty population.
func (p *Population) Prevalence() float64 {
	n := p.Len()
	if n == 0 {
		return 0
	}
	return float64(p.Infected()) / float64(n)
}

// Permute reorders all columns together, swapping rows with rng. Identifiers
// travel with their agent.
func (p *Population) Permute(rng *core.RNG) {
	rng.Shuffle(p.Len(), func(i, j int) {
		p.ids[i], p.ids[j] = p.ids[j], p.ids[i]
		p.sex[i], p.sex[j] = p.sex[j], p.sex[i]
		p.age[i], p.age[j] = p.age[j], p.age[i]
		p.severity[i], p.severity[j] = p.severity[j], p.severity[i]
	})
}

// Agent is a read-only copy of one row.
type Agent struct {
	ID       int
	Sex      Sex
	Age      float64
	Severity uint8
}

// At returns the agent stored at index i.
func (p *Population) At(i int) Agent {
	return Agent{ID: p.ids[i], Sex: p.sex[i], Age: p.age[i], Severity: p.severity[i]}
}

// Snapshot returns every agent keyed by identifier, independent of storage order.
func (p *Population) Snapshot() map[int]Agent {
	out := make(map[int]Agent, p.Len())
	for i := 0; i < p.Len(); i++ {
		a := p.At(i)
		out[a.ID] = a
	}
	return out
}

// FromAgents builds a population from explicit rows. Useful for fixed scenarios.
// Rows with a negative or non-finite age are rejected.
func FromAgents(agents []Agent) (*Population, error) {
	for _, a := range agents {
		if !(a.Age >= 0) || math.IsInf(a.Age, 0) {
			return nil, fmt.Errorf("agent %d age %g: %w", a.ID, a.Age, ErrInvalidOptions)
		}
	}
	p := &Population{
		ids:      make([]int, len(agents)),
		sex:      make([]Sex, len(agents)),
		age:      make([]float64, len(agents)),
		severity: make([]uint8, len(agents)),
	}
	for i, a := range agents {
		p.ids[i] = a.ID
		p.sex[i] = a.Sex
		p.age[i] = a.Age
		p.severity[i] = min(a.Severity, MaxSeverity)
	}
	return p, nil
}

package hiv

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"hivsim/internal/population"
)

// Year is the number of days used to express a one-day time step.
const Year = 365.0

// Params holds the read-only dynamics of a run.
type Params struct {
	// NumYears is the simulated duration in years.
	NumYears float64
	// TimeStep is the length of one step in years.
	TimeStep float64
	// StartDate labels the first report; it does not affect dynamics.
	StartDate float64
	// ProbNewPartner is the per-step probability of acquiring a new partner.
	ProbNewPartner float64
	// ForceInfection scales transmission risk from an infected partner.
	ForceInfection float64
	// Shuffle permutes agent order before every step.
	Shuffle bool
}

// Config controls population construction and the dynamics of a run.
type Config struct {
	PopulationSize int
	Seed           int64

	Population population.Options
	Params     Params
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	return Config{
		PopulationSize: 10000,
		Seed:           23,
		Population:     population.DefaultOptions(),
		Params: Params{
			NumYears:       2,
			TimeStep:       1 / Year,
			StartDate:      2015,
			ProbNewPartner: 0.022,
			ForceInfection: 0.1,
		},
	}
}

// ErrInvalidConfig is matched by every ConfigError.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigError describes a rejected configuration field.
type ConfigError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s=%s: %s", e.Field, e.Value, e.Reason)
}

// Is lets errors.Is match ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool { return target == ErrInvalidConfig }

func invalid(field string, value float64, reason string) error {
	return &ConfigError{Field: field, Value: strconv.FormatFloat(value, 'g', -1, 64), Reason: reason}
}

// Validate checks the dynamics parameters. It must pass before any step runs.
func (p Params) Validate() error {
	var errs []error
	if !(p.NumYears > 0) || math.IsInf(p.NumYears, 0) {
		errs = append(errs, invalid("num_years", p.NumYears, "must be positive and finite"))
	}
	if !(p.TimeStep > 0) || math.IsInf(p.TimeStep, 0) {
		errs = append(errs, invalid("time_step", p.TimeStep, "must be positive and finite"))
	} else if p.NumYears > 0 && !math.IsInf(p.NumYears, 0) {
		// NumSteps truncates the ratio to an int.
		if steps := p.NumYears / p.TimeStep; math.IsInf(steps, 0) || steps >= float64(math.MaxInt) {
			errs = append(errs, invalid("time_step", p.TimeStep, "too small for num_years"))
		}
	}
	if math.IsNaN(p.StartDate) || math.IsInf(p.StartDate, 0) {
		errs = append(errs, invalid("start_date", p.StartDate, "must be finite"))
	}
	if !isProbability(p.ProbNewPartner) {
		errs = append(errs, invalid("prob_new_partner", p.ProbNewPartner, "must be within [0,1]"))
	}
	if !(p.ForceInfection >= 0) || math.IsInf(p.ForceInfection, 0) {
		errs = append(errs, invalid("force_infection", p.ForceInfection, "must be non-negative and finite"))
	}
	return errors.Join(errs...)
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	var errs []error
	if c.PopulationSize <= 0 {
		errs = append(errs, &ConfigError{Field: "population_size", Value: strconv.Itoa(c.PopulationSize), Reason: "must be positive"})
	}
	o := c.Population
	if !(o.AgeMin >= 0) || math.IsInf(o.AgeMin, 0) {
		errs = append(errs, invalid("age_min", o.AgeMin, "must be non-negative and finite"))
	}
	if !(o.AgeMax > o.AgeMin) || math.IsInf(o.AgeMax, 0) {
		errs = append(errs, invalid("age_max", o.AgeMax, "must be finite and greater than age_min"))
	}
	if !isProbability(o.MaleFraction) {
		errs = append(errs, invalid("male_fraction", o.MaleFraction, "must be within [0,1]"))
	}
	if !(o.SeveritySuccess > 0 && o.SeveritySuccess <= 1) {
		errs = append(errs, invalid("initial_severity_p", o.SeveritySuccess, "must be within (0,1]"))
	}
	if err := c.Params.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func isProbability(v float64) bool {
	return v >= 0 && v <= 1
}

// FromMap builds a Config from defaults plus flag-style key/value pairs.
func FromMap(cfg map[string]string) (Config, error) {
	c := DefaultConfig()
	if err := ApplyOverrides(&c, cfg); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ApplyOverrides updates c from key/value pairs. Unknown keys and malformed
// values are reported; validation of ranges is left to Validate.
func ApplyOverrides(c *Config, kv map[string]string) error {
	var errs []error
	for key, raw := range kv {
		value := strings.TrimSpace(raw)
		if err := applyOverride(c, key, value); err != nil {
			errs = append(errs, fmt.Errorf("override %s=%q: %w", key, raw, err))
		}
	}
	return errors.Join(errs...)
}

func applyOverride(c *Config, key, value string) error {
	floatInto := func(dst *float64) error {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
	switch key {
	case "population_size", "n":
		v, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		c.PopulationSize = v
		return nil
	case "seed", "rng_seed":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		c.Seed = v
		return nil
	case "num_years":
		return floatInto(&c.Params.NumYears)
	case "time_step":
		return floatInto(&c.Params.TimeStep)
	case "time_step_days":
		var days float64
		if err := floatInto(&days); err != nil {
			return err
		}
		c.Params.TimeStep = days / Year
		return nil
	case "start_date":
		return floatInto(&c.Params.StartDate)
	case "prob_new_partner":
		return floatInto(&c.Params.ProbNewPartner)
	case "force_infection":
		return floatInto(&c.Params.ForceInfection)
	case "shuffle":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		c.Params.Shuffle = v
		return nil
	case "age_min":
		return floatInto(&c.Population.AgeMin)
	case "age_max":
		return floatInto(&c.Population.AgeMax)
	case "male_fraction":
		return floatInto(&c.Population.MaleFraction)
	case "initial_severity_p":
		return floatInto(&c.Population.SeveritySuccess)
	}
	return errors.New("unknown parameter")
}

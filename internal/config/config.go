// Package config loads run configuration for hivsim.
// It supports loading from YAML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"hivsim/internal/sims/hiv"
)

// File is the on-disk run configuration.
type File struct {
	// Model names the registered simulation to run.
	Model string `yaml:"model"`

	PopulationSize int     `yaml:"population_size"`
	NumYears       float64 `yaml:"num_years"`
	// TimeStep is in years. TimeStepDays, when set, takes precedence.
	TimeStep       float64 `yaml:"time_step"`
	TimeStepDays   float64 `yaml:"time_step_days,omitempty"`
	StartDate      float64 `yaml:"start_date"`
	ProbNewPartner float64 `yaml:"prob_new_partner"`
	ForceInfection float64 `yaml:"force_infection"`
	Shuffle        bool    `yaml:"shuffle"`
	// RNGSeed is optional; nil means seed from the clock.
	RNGSeed *int64 `yaml:"rng_seed,omitempty"`

	Population PopulationConfig `yaml:"population"`
	Logging    LoggingConfig    `yaml:"logging"`
	Output     OutputConfig     `yaml:"output"`
}

// PopulationConfig controls the initial demographics.
type PopulationConfig struct {
	AgeMin           float64 `yaml:"age_min"`
	AgeMax           float64 `yaml:"age_max"`
	MaleFraction     float64 `yaml:"male_fraction"`
	InitialSeverityP float64 `yaml:"initial_severity_p"`
}

// LoggingConfig configures operational logging.
type LoggingConfig struct {
	// Level sets the log verbosity: "debug", "info" (default), "warn" or "error".
	Level string `yaml:"level"`
}

// OutputConfig selects where per-step reports go.
type OutputConfig struct {
	// Format of stdout reports: "text" (default), "csv" or "none".
	Format string `yaml:"format"`
	// CSV, Chart, Movie and DB are optional file paths for extra sinks.
	CSV   string `yaml:"csv,omitempty"`
	Chart string `yaml:"chart,omitempty"`
	Movie string `yaml:"movie,omitempty"`
	DB    string `yaml:"db,omitempty"`

	// MovieEvery records a movie frame every N steps.
	MovieEvery int `yaml:"movie_every,omitempty"`
}

// Default returns a File mirroring hiv.DefaultConfig with no fixed seed.
func Default() *File {
	d := hiv.DefaultConfig()
	return &File{
		Model:          "hiv",
		PopulationSize: d.PopulationSize,
		NumYears:       d.Params.NumYears,
		TimeStep:       d.Params.TimeStep,
		StartDate:      d.Params.StartDate,
		ProbNewPartner: d.Params.ProbNewPartner,
		ForceInfection: d.Params.ForceInfection,
		Shuffle:        d.Params.Shuffle,
		Population: PopulationConfig{
			AgeMin:           d.Population.AgeMin,
			AgeMax:           d.Population.AgeMax,
			MaleFraction:     d.Population.MaleFraction,
			InitialSeverityP: d.Population.SeveritySuccess,
		},
		Logging: LoggingConfig{Level: "info"},
		Output:  OutputConfig{Format: "text"},
	}
}

// Load returns the configuration for a run.
// Order: defaults -> path (if non-empty) -> environment variables.
func Load(path string) (*File, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		cfg = fileCfg
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file on top of defaults.
func LoadFromFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Seeded reports whether the configuration pins the RNG seed.
func (f *File) Seeded() bool { return f.RNGSeed != nil }

// HIVConfig converts the file into a simulation configuration. When no seed
// is pinned the seed is left at zero for the caller to fill in.
func (f *File) HIVConfig() hiv.Config {
	step := f.TimeStep
	if f.TimeStepDays > 0 {
		step = f.TimeStepDays / hiv.Year
	}
	var seed int64
	if f.RNGSeed != nil {
		seed = *f.RNGSeed
	}
	cfg := hiv.Config{
		PopulationSize: f.PopulationSize,
		Seed:           seed,
		Params: hiv.Params{
			NumYears:       f.NumYears,
			TimeStep:       step,
			StartDate:      f.StartDate,
			ProbNewPartner: f.ProbNewPartner,
			ForceInfection: f.ForceInfection,
			Shuffle:        f.Shuffle,
		},
	}
	cfg.Population.AgeMin = f.Population.AgeMin
	cfg.Population.AgeMax = f.Population.AgeMax
	cfg.Population.MaleFraction = f.Population.MaleFraction
	cfg.Population.SeveritySuccess = f.Population.InitialSeverityP
	return cfg
}

// Validate checks the non-simulation settings. Simulation ranges are checked
// by hiv.Config.Validate.
func (f *File) Validate() error {
	switch f.Output.Format {
	case "", "text", "csv", "none":
	default:
		return fmt.Errorf("invalid output format: %s (valid: text, csv, none)", f.Output.Format)
	}
	switch strings.ToLower(f.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", f.Logging.Level)
	}
	return nil
}

// ApplyEnv applies HIVSIM_* environment variable overrides.
func ApplyEnv(cfg *File) error {
	var errs []error
	float := func(name string, dst *float64) {
		if v := os.Getenv(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = f
		}
	}

	if v := os.Getenv("HIVSIM_POPULATION_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("HIVSIM_POPULATION_SIZE: %w", err))
		} else {
			cfg.PopulationSize = n
		}
	}
	if v := os.Getenv("HIVSIM_RNG_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("HIVSIM_RNG_SEED: %w", err))
		} else {
			cfg.RNGSeed = &n
		}
	}
	float("HIVSIM_NUM_YEARS", &cfg.NumYears)
	float("HIVSIM_TIME_STEP", &cfg.TimeStep)
	float("HIVSIM_TIME_STEP_DAYS", &cfg.TimeStepDays)
	float("HIVSIM_START_DATE", &cfg.StartDate)
	float("HIVSIM_PROB_NEW_PARTNER", &cfg.ProbNewPartner)
	float("HIVSIM_FORCE_INFECTION", &cfg.ForceInfection)

	if v := os.Getenv("HIVSIM_SHUFFLE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("HIVSIM_SHUFFLE: %w", err))
		} else {
			cfg.Shuffle = b
		}
	}
	if v := os.Getenv("HIVSIM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("HIVSIM_DB"); v != "" {
		cfg.Output.DB = v
	}
	return errors.Join(errs...)
}

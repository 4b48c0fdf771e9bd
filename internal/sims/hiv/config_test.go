package hiv

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*Config)
		field string
	}{
		{"zero population", func(c *Config) { c.PopulationSize = 0 }, "population_size"},
		{"negative population", func(c *Config) { c.PopulationSize = -5 }, "population_size"},
		{"zero time step", func(c *Config) { c.Params.TimeStep = 0 }, "time_step"},
		{"negative years", func(c *Config) { c.Params.NumYears = -1 }, "num_years"},
		{"nan years", func(c *Config) { c.Params.NumYears = math.NaN() }, "num_years"},
		{"partner prob above one", func(c *Config) { c.Params.ProbNewPartner = 1.2 }, "prob_new_partner"},
		{"negative partner prob", func(c *Config) { c.Params.ProbNewPartner = -0.1 }, "prob_new_partner"},
		{"negative force", func(c *Config) { c.Params.ForceInfection = -1 }, "force_infection"},
		{"step count overflow", func(c *Config) { c.Params.NumYears, c.Params.TimeStep = 1e10, 1e-10 }, "time_step"},
		{"step count infinite", func(c *Config) { c.Params.NumYears, c.Params.TimeStep = 1e300, 1e-300 }, "time_step"},
		{"inverted ages", func(c *Config) { c.Population.AgeMax = c.Population.AgeMin }, "age_max"},
		{"male fraction", func(c *Config) { c.Population.MaleFraction = 2 }, "male_fraction"},
		{"severity p", func(c *Config) { c.Population.SeveritySuccess = 0 }, "initial_severity_p"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mut(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("err = %v, want ErrInvalidConfig", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) || ce.Field != tc.field {
				t.Fatalf("err = %v, want field %s", err, tc.field)
			}
		})
	}
}

func TestValidateAllowsForceAboveOne(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Params.ForceInfection = 2
	if err := cfg.Validate(); err != nil {
		t.Fatalf("force_infection is a multiplier and may exceed 1: %v", err)
	}
}

func TestFromMap(t *testing.T) {
	cfg, err := FromMap(map[string]string{
		"population_size":  "250",
		"seed":             "7",
		"time_step_days":   "7",
		"force_infection":  " 0.5 ",
		"prob_new_partner": "0.1",
		"shuffle":          "true",
		"age_min":          "20",
		"age_max":          "30",
	})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	if cfg.PopulationSize != 250 || cfg.Seed != 7 {
		t.Fatalf("unexpected population/seed: %+v", cfg)
	}
	if math.Abs(cfg.Params.TimeStep-7/Year) > 1e-15 {
		t.Fatalf("TimeStep = %f", cfg.Params.TimeStep)
	}
	if cfg.Params.ForceInfection != 0.5 || cfg.Params.ProbNewPartner != 0.1 || !cfg.Params.Shuffle {
		t.Fatalf("unexpected params: %+v", cfg.Params)
	}
	if cfg.Population.AgeMin != 20 || cfg.Population.AgeMax != 30 {
		t.Fatalf("unexpected ages: %+v", cfg.Population)
	}
}

func TestFromMapReportsBadInput(t *testing.T) {
	_, err := FromMap(map[string]string{"bogus": "1", "seed": "x"})
	if err == nil {
		t.Fatal("expected errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, "bogus") || !strings.Contains(msg, "seed") {
		t.Fatalf("error should name both keys: %v", err)
	}
}

func TestSnapshot(t *testing.T) {
	snap := Snapshot(DefaultConfig())
	p, ok := snap.Lookup("force_infection")
	if !ok || p.Value != "0.1" {
		t.Fatalf("force_infection = %+v, %v", p, ok)
	}
	if snap.Groups[1].Summary != "730 steps" {
		t.Fatalf("time summary = %q", snap.Groups[1].Summary)
	}
}

func TestForceSweep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PopulationSize = 300
	cfg.Params.NumYears = 0.5
	records, err := ForceSweep(cfg, []float64{0, 1, 60})
	if err != nil {
		t.Fatalf("ForceSweep: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records", len(records))
	}
	if records[0].ForceInfection != 60 || records[2].ForceInfection != 0 {
		t.Fatalf("records not ordered by final prevalence: %v", records)
	}
	if records[2].Result.NewInfections != 0 {
		t.Fatalf("zero force produced %d infections", records[2].Result.NewInfections)
	}
	if records[0].Result.ClampedSteps == 0 {
		t.Fatal("force 60 should clamp once prevalence passes ~0.76")
	}
	if _, err := ForceSweep(cfg, []float64{-1}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

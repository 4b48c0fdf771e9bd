package hiv

import (
	"fmt"
	"sort"
	"strconv"
)

// PrevalenceResult captures telemetry from one deterministic run.
type PrevalenceResult struct {
	// InitialPrevalence is the infected fraction before the first step.
	InitialPrevalence float64
	// FinalPrevalence is the infected fraction after the last step.
	FinalPrevalence float64
	FinalInfected   int
	// NewInfections counts agents infected during the run.
	NewInfections int
	// PeakRisk is the largest per-step infection risk applied.
	PeakRisk float64
	// ClampedSteps counts steps whose computed risk had to be clamped.
	ClampedSteps   int
	StepsSimulated int
}

// SweepRecord pairs a force-of-infection value with the run it produced.
type SweepRecord struct {
	ForceInfection float64
	Result         PrevalenceResult
}

func (r SweepRecord) String() string {
	return fmt.Sprintf("force=%s prevalence %.4f -> %.4f new=%d clamped=%d",
		strconv.FormatFloat(r.ForceInfection, 'f', -1, 64),
		r.Result.InitialPrevalence, r.Result.FinalPrevalence, r.Result.NewInfections, r.Result.ClampedSteps)
}

// PrevalenceRun builds a model from cfg, runs it to completion and returns
// the collected telemetry.
func PrevalenceRun(cfg Config) (PrevalenceResult, error) {
	m, err := New(cfg, nil)
	if err != nil {
		return PrevalenceResult{}, err
	}
	res := PrevalenceResult{InitialPrevalence: m.Prevalence()}
	for !m.Done() {
		m.Step()
		last := m.LastStep()
		if last.Risk > res.PeakRisk {
			res.PeakRisk = last.Risk
		}
		if last.Clamped {
			res.ClampedSteps++
		}
	}
	res.FinalInfected = m.Population().Infected()
	res.FinalPrevalence = m.Prevalence()
	res.NewInfections = m.NewInfections()
	res.StepsSimulated = m.StepIndex()
	return res, nil
}

// ForceSweep runs one simulation per force-of-infection value, one after the
// other, each from cfg.Seed. Records are ordered by final prevalence, highest first.
func ForceSweep(cfg Config, forces []float64) ([]SweepRecord, error) {
	records := make([]SweepRecord, 0, len(forces))
	for _, f := range forces {
		c := cfg
		c.Params.ForceInfection = f
		res, err := PrevalenceRun(c)
		if err != nil {
			return nil, fmt.Errorf("force_infection=%g: %w", f, err)
		}
		records = append(records, SweepRecord{ForceInfection: f, Result: res})
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Result.FinalPrevalence > records[j].Result.FinalPrevalence
	})
	return records, nil
}

package hiv

import (
	"strconv"

	icore "hivsim/internal/core"
)

// Parameters describes the configuration the model is running with.
func (m *Model) Parameters() icore.ParameterSnapshot {
	return Snapshot(m.cfg)
}

// Snapshot groups a Config for presentation.
func Snapshot(cfg Config) icore.ParameterSnapshot {
	params := cfg.Params
	pop := cfg.Population
	groups := []icore.ParameterGroup{
		{
			Name: "Population",
			Params: []icore.Parameter{
				intParam("population_size", "Population size", cfg.PopulationSize),
				int64Param("seed", "Seed", cfg.Seed),
				floatParam("age_min", "Minimum age", pop.AgeMin),
				floatParam("age_max", "Maximum age", pop.AgeMax),
				floatParam("male_fraction", "Male fraction", pop.MaleFraction),
				floatParam("initial_severity_p", "Initial severity success probability", pop.SeveritySuccess),
			},
		},
		{
			Name:    "Time",
			Summary: strconv.Itoa(NumSteps(params)) + " steps",
			Params: []icore.Parameter{
				floatParam("num_years", "Years simulated", params.NumYears),
				floatParam("time_step", "Time step (years)", params.TimeStep),
				floatParam("start_date", "Start date", params.StartDate),
			},
		},
		{
			Name: "Transmission",
			Params: []icore.Parameter{
				floatParam("prob_new_partner", "New partner probability per step", params.ProbNewPartner),
				floatParam("force_infection", "Force of infection", params.ForceInfection),
				boolParam("shuffle", "Shuffle agents every step", params.Shuffle),
			},
		},
	}
	return icore.ParameterSnapshot{Groups: groups}
}

func intParam(key, label string, value int) icore.Parameter {
	return icore.Parameter{
		Key:   key,
		Label: label,
		Type:  icore.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) icore.Parameter {
	return icore.Parameter{
		Key:   key,
		Label: label,
		Type:  icore.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) icore.Parameter {
	return icore.Parameter{
		Key:   key,
		Label: label,
		Type:  icore.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func boolParam(key, label string, value bool) icore.Parameter {
	return icore.Parameter{
		Key:   key,
		Label: label,
		Type:  icore.ParamTypeBool,
		Value: strconv.FormatBool(value),
	}
}

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"hivsim/internal/config"
	"hivsim/internal/logging"
	"hivsim/internal/sims/hiv"
)

// resolved is the configuration a command runs with after every layer has
// been applied.
type resolved struct {
	file   *config.File
	cfg    hiv.Config
	seeded bool
	logger *log.Logger
}

// resolve loads --config, the HIVSIM_* environment and --set overrides, in
// that order, and builds the logger.
func resolve(cmd *cobra.Command) (*resolved, error) {
	path, _ := cmd.Flags().GetString("config")
	sets, _ := cmd.Flags().GetStringArray("set")
	level, _ := cmd.Flags().GetString("log-level")

	file, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if level != "" {
		file.Logging.Level = level
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}

	kv, err := parseSets(sets)
	if err != nil {
		return nil, err
	}
	cfg := file.HIVConfig()
	if err := hiv.ApplyOverrides(&cfg, kv); err != nil {
		return nil, err
	}
	_, seedSet := kv["seed"]
	_, rngSeedSet := kv["rng_seed"]

	return &resolved{
		file:   file,
		cfg:    cfg,
		seeded: file.Seeded() || seedSet || rngSeedSet,
		logger: logging.New(file.Logging.Level, cmd.ErrOrStderr()),
	}, nil
}

// seedFromClock fills in a wall-clock seed when none was pinned and logs it
// so the run can be reproduced.
func (r *resolved) seedFromClock() {
	if r.seeded {
		return
	}
	r.cfg.Seed = time.Now().UnixNano()
	r.seeded = true
	r.logger.Info("seeded from clock", "seed", r.cfg.Seed)
}

func parseSets(sets []string) (map[string]string, error) {
	kv := make(map[string]string, len(sets))
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: want key=value", s)
		}
		kv[key] = value
	}
	return kv, nil
}

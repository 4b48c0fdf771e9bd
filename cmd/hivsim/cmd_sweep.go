package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"hivsim/internal/sims/hiv"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Compare final prevalence across force-of-infection values",
		Long: `Sweep runs one simulation per --force value from the same seed, one after
the other, and lists them by final prevalence, highest first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			forces, _ := cmd.Flags().GetFloat64Slice("force")
			if len(forces) == 0 {
				return errors.New("at least one --force value is required")
			}
			r, err := resolve(cmd)
			if err != nil {
				return err
			}
			r.seedFromClock()
			r.logger.Debug("sweep started", "runs", len(forces), "steps", hiv.NumSteps(r.cfg.Params))
			records, err := hiv.ForceSweep(r.cfg, forces)
			if err != nil {
				return err
			}
			for _, rec := range records {
				fmt.Fprintln(cmd.OutOrStdout(), rec.String())
			}
			return nil
		},
	}
	cmd.Flags().Float64Slice("force", nil, "Force-of-infection values to compare (comma separated)")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hivsim/internal/core"
	"hivsim/internal/report"
	"hivsim/internal/sims/hiv"
)

func newParamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Print the resolved run parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := resolve(cmd)
			if err != nil {
				return err
			}
			if err := r.cfg.Validate(); err != nil {
				return err
			}
			if !r.seeded {
				fmt.Fprintln(cmd.OutOrStdout(), "# seed not pinned; run draws one from the clock")
			}
			return report.PrintParameters(cmd.OutOrStdout(), hiv.Snapshot(r.cfg))
		},
	}
}

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the registered simulation models",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range core.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

//go:build ebiten

package main

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"hivsim/internal/app"
	"hivsim/internal/sims/hiv"
)

func newViewCmd() *cobra.Command {
	defaults := app.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Watch the population in a window, coloured by infection severity",
		Long: `View lays agents out on a grid and steps the simulation live.
Keys: space pause, n single step, r reset, s reseed from the clock, q quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := resolve(cmd)
			if err != nil {
				return err
			}
			r.seedFromClock()
			m, err := hiv.New(r.cfg, r.logger)
			if err != nil {
				return err
			}

			opts := defaults
			opts.Seed = r.cfg.Seed
			opts.Scale, _ = cmd.Flags().GetInt("scale")
			opts.StepsPerSecond, _ = cmd.Flags().GetInt("sps")
			game := app.New(m, opts)

			ebiten.SetWindowTitle("hivsim - " + m.Name())
			ebiten.SetWindowSize(opts.ScreenSize(m.Size()))
			if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().Int("scale", defaults.Scale, "Pixels per agent")
	cmd.Flags().Int("sps", defaults.StepsPerSecond, "Simulation steps per second")
	return cmd
}

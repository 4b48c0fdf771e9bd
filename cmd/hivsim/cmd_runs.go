package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"hivsim/internal/archive"
	"hivsim/internal/report"
	"hivsim/internal/sims/hiv"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List archived runs, or the reports of one run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("db")
			if path == "" {
				return errors.New("--db is required")
			}
			ctx := cmd.Context()
			db, err := archive.Open(ctx, path)
			if err != nil {
				return err
			}
			defer db.Close()
			out := cmd.OutOrStdout()

			if raw, _ := cmd.Flags().GetString("steps"); raw != "" {
				id, err := uuid.Parse(raw)
				if err != nil {
					return fmt.Errorf("invalid run id %q: %w", raw, err)
				}
				if _, err := db.GetRun(ctx, id); err != nil {
					return err
				}
				steps, err := db.Steps(ctx, id)
				if err != nil {
					return err
				}
				for _, s := range steps {
					fmt.Fprintln(out, report.FormatLine(hiv.Report{Step: s.Step, Date: s.Date, Infected: s.Infected, Prevalence: s.Prevalence}))
				}
				return nil
			}

			runs, err := db.Runs(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-36s  %-9s  %-20s  %8s  %6s  %8s  %s\n", "ID", "STATUS", "STARTED", "AGENTS", "YEARS", "FORCE", "SEED")
			for _, run := range runs {
				fmt.Fprintf(out, "%-36s  %-9s  %-20s  %8d  %6g  %8g  %d\n",
					run.ID, run.Status, run.StartedAt.Local().Format(time.DateTime),
					run.PopulationSize, run.NumYears, run.ForceInfection, run.Seed)
			}
			return nil
		},
	}
	cmd.Flags().String("db", "", "SQLite archive to read")
	cmd.Flags().String("steps", "", "Print the per-step reports of this run id")
	return cmd
}

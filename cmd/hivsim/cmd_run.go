package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"hivsim/internal/archive"
	"hivsim/internal/config"
	"hivsim/internal/report"
	"hivsim/internal/sims/hiv"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one simulation and report prevalence every step",
		Long: `Run builds the population, prints its demographics and the state at the
start date, then reports date, infected count and prevalence after every
step. Reports can also be written to a CSV file, a PNG chart, an AVI movie
of the population and a SQLite archive.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := resolve(cmd)
			if err != nil {
				return err
			}
			out := &r.file.Output
			if cmd.Flags().Changed("format") {
				out.Format, _ = cmd.Flags().GetString("format")
			}
			if cmd.Flags().Changed("csv") {
				out.CSV, _ = cmd.Flags().GetString("csv")
			}
			if cmd.Flags().Changed("chart") {
				out.Chart, _ = cmd.Flags().GetString("chart")
			}
			if cmd.Flags().Changed("movie") {
				out.Movie, _ = cmd.Flags().GetString("movie")
			}
			if cmd.Flags().Changed("movie-every") {
				out.MovieEvery, _ = cmd.Flags().GetInt("movie-every")
			}
			if cmd.Flags().Changed("db") {
				out.DB, _ = cmd.Flags().GetString("db")
			}
			if err := r.file.Validate(); err != nil {
				return err
			}
			quiet, _ := cmd.Flags().GetBool("quiet")
			timing, _ := cmd.Flags().GetBool("timing")
			return runSimulation(cmd.Context(), cmd.OutOrStdout(), r, quiet, timing)
		},
	}

	cmd.Flags().String("format", "text", "Stdout report format: text, csv or none")
	cmd.Flags().String("csv", "", "Also write per-step reports to this CSV file")
	cmd.Flags().String("chart", "", "Render a prevalence chart PNG to this file")
	cmd.Flags().String("movie", "", "Record the population, coloured by severity, to this MJPEG AVI")
	cmd.Flags().Int("movie-every", report.DefaultMovieOptions().Every, "Steps between movie frames")
	cmd.Flags().String("db", "", "Archive the run in this SQLite database")
	cmd.Flags().Bool("quiet", false, "Suppress summaries and stdout reports")
	cmd.Flags().Bool("timing", false, "Log wall-clock duration and step rate")
	return cmd
}

func runSimulation(ctx context.Context, stdout io.Writer, r *resolved, quiet, timing bool) error {
	r.seedFromClock()
	m, err := hiv.New(r.cfg, r.logger)
	if err != nil {
		return err
	}
	out := r.file.Output
	text := !quiet && (out.Format == "" || out.Format == "text")

	sinks, err := openSinks(stdout, out, quiet)
	if err != nil {
		return err
	}
	if out.Movie != "" {
		opts := report.DefaultMovieOptions()
		if out.MovieEvery > 0 {
			opts.Every = out.MovieEvery
		}
		movie, err := report.NewMovieSink(out.Movie, m.Size(), m.Cells, opts)
		if err != nil {
			sinks.Close()
			return err
		}
		sinks = append(sinks, movie)
		if err := movie.Capture(); err != nil {
			sinks.Close()
			return err
		}
	}

	var db *archive.DB
	var runID uuid.UUID
	if out.DB != "" {
		db, runID, err = beginArchive(ctx, out.DB, r.cfg)
		if err != nil {
			sinks.Close()
			return err
		}
		defer db.Close()
		sinks = append(sinks, report.NewArchiveSink(ctx, db, runID, 0))
		if err := db.RecordSummary(ctx, report.ArchiveSummary(runID, archive.PhaseStart, m.Population().Summary())); err != nil {
			sinks.Close()
			return err
		}
		r.logger.Info("archiving run", "id", runID, "db", out.DB)
	}

	if text {
		if err := report.PrintSummary(stdout, m.Population().Summary()); err != nil {
			sinks.Close()
			return err
		}
		fmt.Fprintln(stdout, report.FormatLine(m.Report()))
	}

	start := time.Now()
	runErr := m.Run(report.Func(sinks))
	elapsed := time.Since(start)
	runErr = errors.Join(runErr, sinks.Close())

	if db != nil {
		status := archive.StatusCompleted
		if runErr != nil {
			status = archive.StatusFailed
		} else if err := db.RecordSummary(ctx, report.ArchiveSummary(runID, archive.PhaseEnd, m.Population().Summary())); err != nil {
			runErr = err
			status = archive.StatusFailed
		}
		if err := db.FinishRun(ctx, runID, status); err != nil {
			runErr = errors.Join(runErr, err)
		}
	}
	if runErr != nil {
		return runErr
	}

	if timing {
		rate := 0.0
		if elapsed > 0 {
			rate = float64(m.StepIndex()) / elapsed.Seconds()
		}
		r.logger.Info("timing", "steps", m.StepIndex(), "agents", m.Population().Len(), "elapsed", elapsed, "steps_per_sec", rate)
	}
	if text {
		return report.PrintSummary(stdout, m.Population().Summary())
	}
	return nil
}

func openSinks(stdout io.Writer, out config.OutputConfig, quiet bool) (report.Multi, error) {
	var sinks report.Multi
	if !quiet {
		switch out.Format {
		case "", "text":
			sinks = append(sinks, report.NewTextSink(stdout))
		case "csv":
			sinks = append(sinks, report.NewCSVSink(stdout))
		}
	}
	if out.CSV != "" {
		f, err := os.Create(out.CSV)
		if err != nil {
			sinks.Close()
			return nil, fmt.Errorf("create csv: %w", err)
		}
		sinks = append(sinks, report.NewCSVFileSink(f))
	}
	if out.Chart != "" {
		sinks = append(sinks, report.NewChartSink(out.Chart))
	}
	return sinks, nil
}

func beginArchive(ctx context.Context, path string, cfg hiv.Config) (*archive.DB, uuid.UUID, error) {
	db, err := archive.Open(ctx, path)
	if err != nil {
		return nil, uuid.Nil, err
	}
	run, err := db.BeginRun(ctx, archive.Run{
		Model:          "hiv",
		Seed:           cfg.Seed,
		PopulationSize: cfg.PopulationSize,
		NumYears:       cfg.Params.NumYears,
		TimeStep:       cfg.Params.TimeStep,
		StartDate:      cfg.Params.StartDate,
		ProbNewPartner: cfg.Params.ProbNewPartner,
		ForceInfection: cfg.Params.ForceInfection,
		Shuffle:        cfg.Params.Shuffle,
	})
	if err != nil {
		db.Close()
		return nil, uuid.Nil, err
	}
	return db, run.ID, nil
}

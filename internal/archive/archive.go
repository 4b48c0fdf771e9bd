// Package archive stores simulation runs in SQLite: run metadata, every
// per-step report and the start/end demographic summaries.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // SQLite driver
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Summary phases.
const (
	PhaseStart = "start"
	PhaseEnd   = "end"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// DB wraps a SQLite connection holding archived runs.
type DB struct {
	conn *sqlx.DB
}

// Run is one archived simulation.
type Run struct {
	ID             uuid.UUID    `db:"id"`
	Model          string       `db:"model"`
	Seed           int64        `db:"seed"`
	PopulationSize int          `db:"population_size"`
	NumYears       float64      `db:"num_years"`
	TimeStep       float64      `db:"time_step"`
	StartDate      float64      `db:"start_date"`
	ProbNewPartner float64      `db:"prob_new_partner"`
	ForceInfection float64      `db:"force_infection"`
	Shuffle        bool         `db:"shuffle"`
	Status         string       `db:"status"`
	StartedAt      time.Time    `db:"started_at"`
	CompletedAt    sql.NullTime `db:"completed_at"`
}

// Step is one archived per-step report.
type Step struct {
	RunID      uuid.UUID `db:"run_id"`
	Step       int       `db:"step"`
	Date       float64   `db:"date"`
	Infected   int       `db:"infected"`
	Prevalence float64   `db:"prevalence"`
}

// Summary is an archived demographic summary.
type Summary struct {
	RunID    uuid.UUID `db:"run_id"`
	Phase    string    `db:"phase"`
	Size     int       `db:"size"`
	Males    int       `db:"males"`
	Females  int       `db:"females"`
	Youngest float64   `db:"youngest"`
	Oldest   float64   `db:"oldest"`
	MeanAge  float64   `db:"mean_age"`
	Sev0     int       `db:"sev0"`
	Sev1     int       `db:"sev1"`
	Sev2     int       `db:"sev2"`
	Sev3     int       `db:"sev3"`
	Sev4     int       `db:"sev4"`
	Sev5     int       `db:"sev5"`
}

// Open opens or creates a SQLite archive at the given path.
func Open(ctx context.Context, path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		model TEXT NOT NULL,
		seed INTEGER NOT NULL,
		population_size INTEGER NOT NULL,
		num_years REAL NOT NULL,
		time_step REAL NOT NULL,
		start_date REAL NOT NULL,
		prob_new_partner REAL NOT NULL,
		force_infection REAL NOT NULL,
		shuffle INTEGER NOT NULL,
		status TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS steps (
		run_id TEXT NOT NULL REFERENCES runs(id),
		step INTEGER NOT NULL,
		date REAL NOT NULL,
		infected INTEGER NOT NULL,
		prevalence REAL NOT NULL,
		PRIMARY KEY (run_id, step)
	);

	CREATE TABLE IF NOT EXISTS summaries (
		run_id TEXT NOT NULL REFERENCES runs(id),
		phase TEXT NOT NULL,
		size INTEGER NOT NULL,
		males INTEGER NOT NULL,
		females INTEGER NOT NULL,
		youngest REAL NOT NULL,
		oldest REAL NOT NULL,
		mean_age REAL NOT NULL,
		sev0 INTEGER NOT NULL,
		sev1 INTEGER NOT NULL,
		sev2 INTEGER NOT NULL,
		sev3 INTEGER NOT NULL,
		sev4 INTEGER NOT NULL,
		sev5 INTEGER NOT NULL,
		PRIMARY KEY (run_id, phase)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := db.conn.ExecContext(ctx, schema)
	return err
}

// BeginRun records a new run in the running state and returns it with a fresh id.
func (db *DB) BeginRun(ctx context.Context, run Run) (Run, error) {
	run.ID = uuid.New()
	run.Status = StatusRunning
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	_, err := db.conn.NamedExecContext(ctx, `INSERT INTO runs
		(id, model, seed, population_size, num_years, time_step, start_date,
		 prob_new_partner, force_infection, shuffle, status, started_at)
		VALUES (:id, :model, :seed, :population_size, :num_years, :time_step, :start_date,
		 :prob_new_partner, :force_infection, :shuffle, :status, :started_at)`, run)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// RecordSteps appends step reports for a run in a single transaction.
func (db *DB) RecordSteps(ctx context.Context, steps []Step) error {
	if len(steps) == 0 {
		return nil
	}
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, `INSERT INTO steps
		(run_id, step, date, infected, prevalence)
		VALUES (:run_id, :step, :date, :infected, :prevalence)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range steps {
		if _, err := stmt.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("insert step %d: %w", s.Step, err)
		}
	}
	return tx.Commit()
}

// RecordSummary stores or replaces the summary for a run phase.
func (db *DB) RecordSummary(ctx context.Context, s Summary) error {
	_, err := db.conn.NamedExecContext(ctx, `INSERT OR REPLACE INTO summaries
		(run_id, phase, size, males, females, youngest, oldest, mean_age,
		 sev0, sev1, sev2, sev3, sev4, sev5)
		VALUES (:run_id, :phase, :size, :males, :females, :youngest, :oldest, :mean_age,
		 :sev0, :sev1, :sev2, :sev3, :sev4, :sev5)`, s)
	if err != nil {
		return fmt.Errorf("insert summary: %w", err)
	}
	return nil
}

// FinishRun marks a run as completed or failed.
func (db *DB) FinishRun(ctx context.Context, id uuid.UUID, status string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE runs SET status = ?, completed_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish run %s: %w", id, ErrRunNotFound)
	}
	return nil
}

// Runs lists archived runs, newest first.
func (db *DB) Runs(ctx context.Context) ([]Run, error) {
	var runs []Run
	if err := db.conn.SelectContext(ctx, &runs, `SELECT * FROM runs ORDER BY started_at DESC`); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// GetRun loads a single run.
func (db *DB) GetRun(ctx context.Context, id uuid.UUID) (Run, error) {
	var run Run
	err := db.conn.GetContext(ctx, &run, `SELECT * FROM runs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// Steps returns the step reports for a run in step order.
func (db *DB) Steps(ctx context.Context, id uuid.UUID) ([]Step, error) {
	var steps []Step
	if err := db.conn.SelectContext(ctx, &steps, `SELECT * FROM steps WHERE run_id = ? ORDER BY step`, id); err != nil {
		return nil, fmt.Errorf("list steps: %w", err)
	}
	return steps, nil
}

// Summaries returns the archived summaries for a run.
func (db *DB) Summaries(ctx context.Context, id uuid.UUID) ([]Summary, error) {
	var out []Summary
	if err := db.conn.SelectContext(ctx, &out, `SELECT * FROM summaries WHERE run_id = ? ORDER BY phase DESC`, id); err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	return out, nil
}

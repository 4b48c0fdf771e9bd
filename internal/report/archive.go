package report

import (
	"context"

	"github.com/google/uuid"

	"hivsim/internal/archive"
	"hivsim/internal/population"
	"hivsim/internal/sims/hiv"
)

// DefaultBatch is the number of steps ArchiveSink buffers per transaction.
const DefaultBatch = 256

// ArchiveSink stores reports in a run archive, batching inserts.
type ArchiveSink struct {
	ctx   context.Context
	db    *archive.DB
	runID uuid.UUID
	batch int
	buf   []archive.Step
}

// NewArchiveSink returns a sink recording steps for runID. A non-positive
// batch uses DefaultBatch.
func NewArchiveSink(ctx context.Context, db *archive.DB, runID uuid.UUID, batch int) *ArchiveSink {
	if batch <= 0 {
		batch = DefaultBatch
	}
	return &ArchiveSink{ctx: ctx, db: db, runID: runID, batch: batch}
}

func (s *ArchiveSink) Write(r hiv.Report) error {
	s.buf = append(s.buf, archive.Step{
		RunID:      s.runID,
		Step:       r.Step,
		Date:       r.Date,
		Infected:   r.Infected,
		Prevalence: r.Prevalence,
	})
	if len(s.buf) >= s.batch {
		return s.flush()
	}
	return nil
}

func (s *ArchiveSink) flush() error {
	if len(s.buf) == 0 {
		return nil
	}
	err := s.db.RecordSteps(s.ctx, s.buf)
	s.buf = s.buf[:0]
	return err
}

// Close writes any buffered steps. The archive connection stays open.
func (s *ArchiveSink) Close() error { return s.flush() }

// ArchiveSummary converts population statistics into an archive row.
func ArchiveSummary(runID uuid.UUID, phase string, st population.Stats) archive.Summary {
	return archive.Summary{
		RunID:    runID,
		Phase:    phase,
		Size:     st.Size,
		Males:    st.Males,
		Females:  st.Females,
		Youngest: st.Youngest,
		Oldest:   st.Oldest,
		MeanAge:  st.MeanAge,
		Sev0:     st.BySeverity[0],
		Sev1:     st.BySeverity[1],
		Sev2:     st.BySeverity[2],
		Sev3:     st.BySeverity[3],
		Sev4:     st.BySeverity[4],
		Sev5:     st.BySeverity[5],
	}
}

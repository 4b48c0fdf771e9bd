package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hivsim/internal/archive"
	"hivsim/internal/core"
	"hivsim/internal/population"
	"hivsim/internal/sims/hiv"
)

var sample = []hiv.Report{
	{Step: 1, Date: 2015.25, Infected: 10, Prevalence: 0.1},
	{Step: 2, Date: 2015.5, Infected: 12, Prevalence: 0.12},
	{Step: 3, Date: 2015.75, Infected: 15, Prevalence: 0.15},
}

func writeAll(t *testing.T, s Sink) {
	t.Helper()
	for _, r := range sample {
		if err := s.Write(r); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestFormatLine(t *testing.T) {
	got := FormatLine(hiv.Report{Date: 2015, Infected: 1053, Prevalence: 0.1053})
	want := "2015.0000 Num infected: 1053 Prevalence: 0.1053"
	if got != want {
		t.Fatalf("FormatLine = %q, want %q", got, want)
	}
}

func TestTextSink(t *testing.T) {
	var buf bytes.Buffer
	writeAll(t, NewTextSink(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(sample) {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[2] != "2015.7500 Num infected: 15 Prevalence: 0.15" {
		t.Fatalf("last line = %q", lines[2])
	}
}

func TestCSVSink(t *testing.T) {
	var buf bytes.Buffer
	writeAll(t, NewCSVSink(&buf))
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(rows) != len(sample)+1 {
		t.Fatalf("got %d rows", len(rows))
	}
	if strings.Join(rows[0], ",") != "date,num_infected,prevalence" {
		t.Fatalf("header = %v", rows[0])
	}
	if strings.Join(rows[1], ",") != "2015.25,10,0.1" {
		t.Fatalf("first row = %v", rows[1])
	}
}

func TestCSVFileSinkClosesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	writeAll(t, NewCSVFileSink(f))
	if err := f.Close(); err == nil {
		t.Fatal("file should already be closed by the sink")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "date,num_infected,prevalence\n") {
		t.Fatalf("unexpected file contents: %q", data)
	}
}

func TestCSVSinkLeavesWriterOpen(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "stdout"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	writeAll(t, NewCSVSink(f))
	if _, err := f.WriteString("after\n"); err != nil {
		t.Fatalf("caller's writer unusable after Close: %v", err)
	}
}

type failSink struct{ closed bool }

func (f *failSink) Write(hiv.Report) error { return errors.New("full") }
func (f *failSink) Close() error { f.closed = true; return errors.New("close failed") }

func TestMulti(t *testing.T) {
	var a, b bytes.Buffer
	writeAll(t, Multi{NewTextSink(&a), NewTextSink(&b)})
	if a.String() != b.String() || a.Len() == 0 {
		t.Fatal("fan-out sinks saw different output")
	}

	var c bytes.Buffer
	fail := &failSink{}
	m := Multi{fail, NewTextSink(&c)}
	if err := m.Write(sample[0]); err == nil {
		t.Fatal("expected write error")
	}
	if c.Len() != 0 {
		t.Fatal("sink after a failing one should not be written")
	}
	if err := m.Close(); err == nil || !fail.closed {
		t.Fatalf("Close err = %v closed=%v", err, fail.closed)
	}
}

func TestChartSink(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prevalence.png")
	s := NewChartSink(path)
	writeAll(t, s)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("chart not written: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatal("chart is not a PNG")
	}

	short := filepath.Join(dir, "short.png")
	one := NewChartSink(short)
	if err := one.Write(sample[0]); err != nil {
		t.Fatal(err)
	}
	if err := one.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(short); !os.IsNotExist(err) {
		t.Fatal("chart with one point should not be written")
	}
}

func TestArchiveSink(t *testing.T) {
	ctx := context.Background()
	db, err := archive.Open(ctx, filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	run, err := db.BeginRun(ctx, archive.Run{Model: "hiv", PopulationSize: 100, NumYears: 1, TimeStep: 0.25})
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	writeAll(t, NewArchiveSink(ctx, db, run.ID, 2))
	steps, err := db.Steps(ctx, run.ID)
	if err != nil {
		t.Fatalf("Steps: %v", err)
	}
	if len(steps) != len(sample) || steps[2].Infected != 15 {
		t.Fatalf("Steps = %+v", steps)
	}

	st := population.Stats{Size: 100, Males: 40, Females: 60, Youngest: 15, Oldest: 19.9, MeanAge: 17.4}
	st.BySeverity[0], st.BySeverity[5] = 99, 1
	if err := db.RecordSummary(ctx, ArchiveSummary(run.ID, archive.PhaseStart, st)); err != nil {
		t.Fatalf("RecordSummary: %v", err)
	}
	sums, err := db.Summaries(ctx, run.ID)
	if err != nil || len(sums) != 1 || sums[0].Sev5 != 1 || sums[0].Females != 60 {
		t.Fatalf("Summaries = %+v, %v", sums, err)
	}
}

func TestPrintSummary(t *testing.T) {
	st := population.Stats{Size: 4, Males: 3, Females: 1, Youngest: 15.5, Oldest: 19.25, MeanAge: 17}
	st.BySeverity[0], st.BySeverity[1] = 3, 1
	var buf bytes.Buffer
	if err := PrintSummary(&buf, st); err != nil {
		t.Fatal(err)
	}
	want := "Males: 3\nYoungest: 15.5\nOldest: 19.25\nAverage age: 17\n" +
		"HIV 0 3\nHIV 1 1\nHIV 2 0\nHIV 3 0\nHIV 4 0\nHIV 5 0\n"
	if buf.String() != want {
		t.Fatalf("summary =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestPrintParameters(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintParameters(&buf, hiv.Snapshot(hiv.DefaultConfig())); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Time (730 steps)", "force_infection", "prob_new_partner", "Population"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMovieSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.avi")
	cells := []uint8{0, 1, 2, 0, 0}
	s, err := NewMovieSink(path, core.LayoutFor(len(cells)), func() []uint8 { return cells }, MovieOptions{Scale: 8, Every: 2})
	if err != nil {
		t.Fatalf("NewMovieSink: %v", err)
	}
	if err := s.Capture(); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	writeAll(t, s)
	// initial frame plus step 2
	if s.Frames() != 2 {
		t.Fatalf("Frames = %d, want 2", s.Frames())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("movie not written: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("RIFF")) {
		t.Fatal("movie is not a RIFF/AVI file")
	}
}

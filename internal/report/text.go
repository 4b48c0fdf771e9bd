package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"hivsim/internal/sims/hiv"
)

// FormatLine renders a report the way the console prints it.
func FormatLine(r hiv.Report) string {
	return fmt.Sprintf("%s Num infected: %d Prevalence: %s",
		strconv.FormatFloat(r.Date, 'f', 4, 64), r.Infected, strconv.FormatFloat(r.Prevalence, 'g', 6, 64))
}

// TextSink writes one human-readable line per report.
type TextSink struct {
	w io.Writer
}

// NewTextSink returns a sink writing lines to w.
func NewTextSink(w io.Writer) *TextSink { return &TextSink{w: w} }

func (s *TextSink) Write(r hiv.Report) error {
	_, err := fmt.Fprintln(s.w, FormatLine(r))
	return err
}

// Close is a no-op; the writer is owned by the caller.
func (s *TextSink) Close() error { return nil }

// CSVHeader is the first row written by CSVSink.
var CSVHeader = []string{"date", "num_infected", "prevalence"}

// CSVSink writes reports as date,num_infected,prevalence rows.
type CSVSink struct {
	w      *csv.Writer
	closer io.Closer
	header bool
}

// NewCSVSink writes CSV rows to w. The writer is owned by the caller and is
// never closed.
func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: csv.NewWriter(w)}
}

// NewCSVFileSink writes CSV rows to f and closes f on Close.
func NewCSVFileSink(f io.WriteCloser) *CSVSink {
	return &CSVSink{w: csv.NewWriter(f), closer: f}
}

func (s *CSVSink) Write(r hiv.Report) error {
	if !s.header {
		if err := s.w.Write(CSVHeader); err != nil {
			return err
		}
		s.header = true
	}
	return s.w.Write([]string{
		strconv.FormatFloat(r.Date, 'f', -1, 64),
		strconv.Itoa(r.Infected),
		strconv.FormatFloat(r.Prevalence, 'f', -1, 64),
	})
}

// Close flushes buffered rows and closes the file of a NewCSVFileSink.
func (s *CSVSink) Close() error {
	s.w.Flush()
	err := s.w.Error()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

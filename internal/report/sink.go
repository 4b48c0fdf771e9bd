// Package report renders per-step simulation reports: console lines, CSV
// rows, a prevalence chart and the SQLite archive.
package report

import (
	"errors"

	"hivsim/internal/sims/hiv"
)

// Sink consumes per-step reports. Close flushes buffered output; a sink must
// not be written to after Close.
type Sink interface {
	Write(r hiv.Report) error
	Close() error
}

// Func adapts a Sink into the callback the simulation driver expects.
func Func(s Sink) hiv.ReportFunc {
	return s.Write
}

// Multi fans reports out to every sink in order. The first write error stops
// the fan-out for that report.
type Multi []Sink

// Write forwards r to every sink.
func (m Multi) Write(r hiv.Report) error {
	for _, s := range m {
		if err := s.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink, including those after a failing one.
func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package report

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/icza/mjpeg"

	"hivsim/internal/core"
	"hivsim/internal/render"
	"hivsim/internal/sims/hiv"
)

// MovieOptions controls how a MovieSink samples and encodes frames.
type MovieOptions struct {
	// Scale is the frame size of one agent in pixels.
	Scale int
	FPS   int
	// Every records a frame on each step divisible by it.
	Every   int
	Quality int
}

// DefaultMovieOptions records weekly frames of a daily run at 10 fps.
func DefaultMovieOptions() MovieOptions {
	return MovieOptions{Scale: 2, FPS: 10, Every: 7, Quality: 90}
}

// MovieSink writes an MJPEG AVI of the population coloured by severity.
// Cells are read from cells at the moment a frame is taken.
type MovieSink struct {
	aw     mjpeg.AviWriter
	size   core.Size
	cells  func() []uint8
	opts   MovieOptions
	buf    bytes.Buffer
	frames int
}

// NewMovieSink creates the AVI at path for a population laid out on size.
func NewMovieSink(path string, size core.Size, cells func() []uint8, opts MovieOptions) (*MovieSink, error) {
	d := DefaultMovieOptions()
	if opts.Scale <= 0 {
		opts.Scale = d.Scale
	}
	if opts.FPS <= 0 {
		opts.FPS = d.FPS
	}
	if opts.Every <= 0 {
		opts.Every = d.Every
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = d.Quality
	}
	aw, err := mjpeg.New(path, int32(size.W*opts.Scale), int32(size.H*opts.Scale), int32(opts.FPS))
	if err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}
	return &MovieSink{aw: aw, size: size, cells: cells, opts: opts}, nil
}

// Capture appends the current population as one frame.
func (s *MovieSink) Capture() error {
	s.buf.Reset()
	img := render.Frame(s.cells(), s.size, s.opts.Scale)
	if err := jpeg.Encode(&s.buf, img, &jpeg.Options{Quality: s.opts.Quality}); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	if err := s.aw.AddFrame(s.buf.Bytes()); err != nil {
		return fmt.Errorf("add frame: %w", err)
	}
	s.frames++
	return nil
}

func (s *MovieSink) Write(r hiv.Report) error {
	if r.Step%s.opts.Every != 0 {
		return nil
	}
	return s.Capture()
}

// Frames returns the number of frames written so far.
func (s *MovieSink) Frames() int { return s.frames }

// Close finalises the AVI index.
func (s *MovieSink) Close() error { return s.aw.Close() }

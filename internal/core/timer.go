package core

import "time"

// FixedStep paces simulation steps at a steady rate independent of the
// caller's frame rate.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given steps per second.
func NewFixedStep(sps int) *FixedStep {
	fs := &FixedStep{now: time.Now}
	fs.SetRate(sps)
	fs.accumulator = fs.step
	return fs
}

// SetRate changes the step rate. Non-positive values fall back to 60.
func (f *FixedStep) SetRate(sps int) {
	if sps <= 0 {
		sps = 60
	}
	f.step = time.Second / time.Duration(sps)
}

// Due returns how many steps have accumulated since the last call, capped at
// max so a stalled frame does not trigger a burst.
func (f *FixedStep) Due(max int) int {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now
	n := 0
	for f.accumulator >= f.step && n < max {
		f.accumulator -= f.step
		n++
	}
	if n == max {
		f.accumulator = 0
	}
	return n
}

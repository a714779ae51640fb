// Package dutycycle decides on which sample cycles the power-expensive
// accelerometer is read.
package dutycycle

import "fmt"

// Selects reports whether cycle n samples the accelerometer: enabled and
// n mod (mask+1) == 0, with mask+1 a power of two.
func Selects(n, mask uint32, enabled bool) bool {
	return enabled && n&mask == 0
}

// Scheduler holds the cycle counter. The decision depends on nothing else.
type Scheduler struct {
	mask    uint32
	enabled bool
	counter uint32
}

// New returns a scheduler that selects every period-th cycle starting at 0.
// period must be a power of two; 1 selects every cycle.
func New(period uint32, enabled bool) (*Scheduler, error) {
	if !IsPowerOfTwo(period) {
		return nil, fmt.Errorf("accel period %d is not a power of two", period)
	}
	return &Scheduler{mask: period - 1, enabled: enabled}, nil
}

func IsPowerOfTwo(v uint32) bool {
	return v != 0 && v&(v-1) == 0
}

// SampleAccel reports the decision for the current cycle.
func (s *Scheduler) SampleAccel() bool {
	return Selects(s.counter, s.mask, s.enabled)
}

// Advance counts one completed sample. The counter wraps at 2^32, which keeps
// the period phase because every period divides 2^32.
func (s *Scheduler) Advance() {
	s.counter++
}

func (s *Scheduler) Counter() uint32 { return s.counter }
func (s *Scheduler) Period() uint32  { return s.mask + 1 }
func (s *Scheduler) Enabled() bool   { return s.enabled }

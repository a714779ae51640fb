package clock

import (
	"context"
	"sync"
	"time"
)

// Fake is a manual clock for tests. Sleep advances uptime by the requested
// duration instead of blocking.
type Fake struct {
	mu     sync.Mutex
	uptime time.Duration
	slept  []time.Duration
}

func NewFake(start time.Duration) *Fake {
	return &Fake{uptime: start}
}

func (f *Fake) UptimeMicros() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint64(f.uptime / time.Microsecond)
}

func (f *Fake) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	f.uptime += d
	f.slept = append(f.slept, d)
	f.mu.Unlock()
	return nil
}

// Advance moves uptime forward, simulating time spent in sensor or radio I/O.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.uptime += d
	f.mu.Unlock()
}

func (f *Fake) Slept() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.slept...)
}

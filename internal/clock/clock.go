// Package clock provides the node's monotonic uptime and its blocking
// interval wait.
package clock

import (
	"context"
	"time"
)

// Clock is the platform time source used by the sample loop.
type Clock interface {
	// UptimeMicros returns microseconds since boot. It never decreases.
	UptimeMicros() uint64
	// Sleep blocks for d. It returns early only when ctx is done.
	Sleep(ctx context.Context, d time.Duration) error
}

// System is the host clock. Uptime comes from bootUptime, which is
// CLOCK_BOOTTIME on Linux and process uptime elsewhere.
type System struct{}

func (System) UptimeMicros() uint64 {
	return uint64(bootUptime() / time.Microsecond)
}

func (System) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

//go:build !linux

package clock

import "time"

var processStart = time.Now()

func bootUptime() time.Duration {
	return time.Since(processStart)
}

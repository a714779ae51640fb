package sensor

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks a sensor disabled for the process after its init failed.
var ErrUnavailable = errors.New("sensor unavailable")

// InitError is a permanent, sensor-scoped startup failure.
type InitError struct {
	Sensor string
	Err    error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("%s init: %v", e.Sensor, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// ReadError is a transient I/O failure while reading a sensor or switching
// its power mode.
type ReadError struct {
	Sensor string
	Op     string
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Sensor, e.Op, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

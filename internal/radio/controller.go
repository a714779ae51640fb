// Package radio sequences the per-interface radio power state around each
// transmission.
//
// Every interface starts AWAKE. The sample loop puts all of them to SLEEP right
// after a send. Nothing here wakes them again unless explicit wake is enabled:
// the network stack is expected to restore AWAKE on the next transmit request.
// That expectation is unverified for the underlying transport; if it does not
// hold, only the first transmission of the process reaches the air.
package radio

import (
	"errors"
	"fmt"
	"log/slog"
)

type State int

const (
	Awake State = iota
	Sleep
)

func (s State) String() string {
	switch s {
	case Awake:
		return "awake"
	case Sleep:
		return "sleep"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Interface is one network interface whose power option can be set.
type Interface interface {
	Name() string
	SetState(State) error
}

// ConfigError is an interface-scoped failure to apply a power state.
type ConfigError struct {
	Interface string
	State     State
	Err       error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("radio %s set %s: %v", e.Interface, e.State, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Controller holds the interfaces enumerated at startup and the last state
// successfully commanded on each.
type Controller struct {
	ifaces []Interface
	states []State
	logger *slog.Logger
}

func NewController(ifaces []Interface, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		ifaces: ifaces,
		states: make([]State, len(ifaces)),
		logger: logger,
	}
}

// SleepAll moves every interface to SLEEP. A failure on one interface is
// logged and does not stop the others; the failures are returned joined.
func (c *Controller) SleepAll() error { return c.setAll(Sleep) }

// WakeAll moves every interface to AWAKE, with the same failure policy.
func (c *Controller) WakeAll() error { return c.setAll(Awake) }

func (c *Controller) setAll(st State) error {
	var errs []error
	for i, ifc := range c.ifaces {
		if err := ifc.SetState(st); err != nil {
			cerr := &ConfigError{Interface: ifc.Name(), State: st, Err: err}
			c.logger.Warn("radio state not applied", "iface", ifc.Name(), "state", st.String(), "error", err)
			errs = append(errs, cerr)
			continue
		}
		c.states[i] = st
	}
	return errors.Join(errs...)
}

// State returns the last state successfully commanded on the named interface.
func (c *Controller) State(name string) (State, bool) {
	for i, ifc := range c.ifaces {
		if ifc.Name() == name {
			return c.states[i], true
		}
	}
	return Awake, false
}

func (c *Controller) Names() []string {
	out := make([]string, len(c.ifaces))
	for i, ifc := range c.ifaces {
		out[i] = ifc.Name()
	}
	return out
}

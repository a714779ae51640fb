package radio

import "log/slog"

// Nop accepts every state change without touching hardware. It is used on
// development hosts and where the interface has no power option.
type Nop struct {
	name   string
	logger *slog.Logger
	state  State
}

func NewNop(name string, logger *slog.Logger) *Nop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Nop{name: name, logger: logger}
}

func (n *Nop) Name() string { return n.name }

func (n *Nop) SetState(st State) error {
	n.state = st
	n.logger.Debug("radio state (nop)", "iface", n.name, "state", st.String())
	return nil
}

func (n *Nop) Current() State { return n.state }

package app

import (
	"log/slog"

	"github.com/coreos/go-systemd/daemon"
)

// notify reports state to systemd. Outside systemd it is a no-op.
func notify(state string) {
	ok, err := daemon.SdNotify(false, state)
	if err != nil {
		slog.Warn("sd_notify failed", "state", state, "error", err)
		return
	}
	if ok {
		slog.Debug("sd_notify sent", "state", state)
	}
}

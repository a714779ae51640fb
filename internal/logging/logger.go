// Package logging builds the process logger for both binaries.
package logging

import (
	"cloudpico-node/internal/config"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// New logs to stdout. Development builds get colored tint output; releases
// get JSON for journald and log shippers.
func New(base config.Base, version string, appName string) *slog.Logger {
	return NewWriter(os.Stdout, base, version, appName)
}

func NewWriter(w io.Writer, base config.Base, version string, appName string) *slog.Logger {
	if isDev(base, version) {
		h := tint.NewHandler(w, &tint.Options{
			Level:      base.LogLevel,
			AddSource:  true,
			TimeFormat: time.StampMilli,
		})
		return slog.New(h).With("app", appName)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       base.LogLevel,
		ReplaceAttr: utcTime,
	})
	return slog.New(h).With(
		"app", appName,
		"version", version,
		"env", base.AppEnv,
	)
}

func isDev(base config.Base, version string) bool {
	return version == "dev" || base.AppEnv == "dev"
}

// utcTime pins record timestamps to UTC so nodes and collector agree.
func utcTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
		a.Value = slog.TimeValue(a.Value.Time().UTC())
	}
	return a
}

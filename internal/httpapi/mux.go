package httpapi

import (
	"cloudpico-node/internal/reading"
	"context"
	"net/http"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type ReadingSource interface {
	Latest(ctx context.Context, stationID string, limit int) ([]reading.Reading, error)
}

type StatsSource interface {
	Stats() any
}

// Deps are all optional. A nil store disables the readings route and makes
// /healthz report only process liveness.
type Deps struct {
	Store    Pinger
	Readings ReadingSource
	Stats    StatsSource
}

func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, d.Store)
	if d.Readings != nil {
		registerReadings(mux, d.Readings)
	}
	if d.Stats != nil {
		mux.HandleFunc("GET /stats", func(w http.ResponseWriter, r *http.Request) {
			writeStats(w, d.Stats)
		})
	}
	return mux
}

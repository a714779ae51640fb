package httpapi

import (
	"cloudpico-node/internal/utils"
	"log/slog"
	"net/http"
)

type healthchecker struct {
	store Pinger
}

func (h *healthchecker) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			slog.Error("failed to check database connectivity", "error", err)
			utils.WriteError(w, http.StatusServiceUnavailable, "failed to check database connectivity")
			return
		}
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func registerHealthcheck(mux *http.ServeMux, store Pinger) {
	h := &healthchecker{store: store}
	mux.HandleFunc("GET /healthz", h.handleHealthz)
}

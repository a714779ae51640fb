package httpapi

import (
	"cloudpico-node/internal/reading"
	"cloudpico-node/internal/utils"
	"log/slog"
	"net/http"
)

const (
	defaultLimit = 50
	maxLimit     = 1000
)

func registerReadings(mux *http.ServeMux, src ReadingSource) {
	mux.HandleFunc("GET /stations/{station}/readings", func(w http.ResponseWriter, r *http.Request) {
		station := r.PathValue("station")

		limit, err := utils.QueryInt(r, "limit", defaultLimit, 1, maxLimit)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		out, err := src.Latest(r.Context(), station, limit)
		if err != nil {
			slog.Error("failed to load readings", "station", station, "error", err)
			utils.WriteError(w, http.StatusInternalServerError, "failed to load readings")
			return
		}
		if out == nil {
			out = []reading.Reading{}
		}
		utils.WriteJSON(w, http.StatusOK, map[string]any{
			"station_id": station,
			"readings":   out,
		})
	})
}

func writeStats(w http.ResponseWriter, src StatsSource) {
	utils.WriteJSON(w, http.StatusOK, src.Stats())
}

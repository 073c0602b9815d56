package server

import "net/http"

func handleLevels(src LevelsSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if src == nil {
			writeError(w, http.StatusServiceUnavailable, "levels dataset not configured")
			return
		}
		writeJSON(w, http.StatusOK, src.Dataset())
	}
}

package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/playperu/bracket/internal/results"
)

// SavedEntry echoes what was written by a save.
type SavedEntry struct {
	Category string `json:"category"`
	Slot     string `json:"slot"`
	Team     string `json:"team"`
	Score    string `json:"score,omitempty"`
	Field    string `json:"field,omitempty"`
}

type SaveResponse struct {
	OK    bool       `json:"ok"`
	Saved SavedEntry `json:"saved"`
}

type ClearResponse struct {
	OK       bool   `json:"ok"`
	Cleared  bool   `json:"cleared"`
	Category string `json:"category"`
	Slot     string `json:"slot"`
}

type RemoveResponse struct {
	OK       bool   `json:"ok"`
	Removed  bool   `json:"removed"`
	Category string `json:"category"`
	Slot     string `json:"slot"`
}

func handleGetResults(logger *slog.Logger, svc *results.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := svc.Get(r.Context())
		if err != nil {
			logger.Error("loading results", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load results")
			return
		}

		// Address-bar navigations and probes carry no Origin; let them render.
		if r.Header.Get("Origin") == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Del("Vary")
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func handlePutResults(logger *slog.Logger, svc *results.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := readBody(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable request body")
			return
		}
		m, err := results.ParseWriteBody(body)
		if err != nil {
			writeMutationError(w, logger, err)
			return
		}

		out, err := svc.Apply(r.Context(), m)
		if err != nil {
			writeMutationError(w, logger, err)
			return
		}

		if out.Kind == results.KindCleared {
			writeJSON(w, http.StatusOK, ClearResponse{
				OK:       true,
				Cleared:  out.Existed,
				Category: out.Category,
				Slot:     out.Slot,
			})
			return
		}
		writeJSON(w, http.StatusOK, SaveResponse{
			OK: true,
			Saved: SavedEntry{
				Category: out.Category,
				Slot:     out.Slot,
				Team:     out.Saved.Team,
				Score:    out.Saved.Score,
				Field:    out.Saved.Field,
			},
		})
	}
}

func handleDeleteResults(logger *slog.Logger, svc *results.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := readBody(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable request body")
			return
		}
		req, err := results.ParseDeleteBody(body)
		if err != nil {
			writeMutationError(w, logger, err)
			return
		}

		out, err := svc.Apply(r.Context(), req)
		if err != nil {
			writeMutationError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, RemoveResponse{
			OK:       true,
			Removed:  out.Existed,
			Category: out.Category,
			Slot:     out.Slot,
		})
	}
}

func writeMutationError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var verr *results.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Msg)
		return
	}
	logger.Error("updating results", "error", err)
	writeError(w, http.StatusInternalServerError, "failed to update results")
}

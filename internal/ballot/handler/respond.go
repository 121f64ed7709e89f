package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"ballotguide/pkg/platform/sentinel"
)

type errorResponse struct {
	Error string `json:"error"`
}

func decode[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (T, bool) {
	var req T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		logger.DebugContext(r.Context(), "bad request body", "error", err)
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sentinel.ErrNoData):
		writeErrorMessage(w, http.StatusNotFound, "no ballot data for this user")
	case errors.Is(err, sentinel.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, sentinel.ErrStale):
		writeErrorMessage(w, http.StatusConflict, "address changed during refresh")
	case errors.Is(err, sentinel.ErrConflict):
		writeErrorMessage(w, http.StatusBadRequest, "invalid request")
	case errors.Is(err, sentinel.ErrUnavailable):
		writeErrorMessage(w, http.StatusBadGateway, "upstream provider unavailable")
	default:
		writeErrorMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

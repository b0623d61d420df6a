package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"expensetracker/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps validation error kinds to HTTP statuses. Anything without
// a kind is a server-side failure.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch core.KindOf(err) {
	case core.KindType, core.KindRange, core.KindFormat, core.KindValidation:
		status = http.StatusBadRequest
	case core.KindNotFound:
		status = http.StatusNotFound
	case core.KindDuplicate:
		status = http.StatusConflict
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

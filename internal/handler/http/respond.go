package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/w-h-a/research/completion"
	"github.com/w-h-a/research/store"
)

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// fail maps err to a status and a message that is safe to show.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeError(w, status, msg)
}

func classify(err error) (int, string) {
	var cerr *completion.Error

	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "File not found"
	case errors.Is(err, store.ErrInvalidName):
		return http.StatusBadRequest, "Invalid file type"
	case errors.As(err, &cerr):
		switch cerr.Kind {
		case completion.InsufficientInput:
			return http.StatusBadRequest, cerr.Message()
		case completion.ConfigurationMissing:
			return http.StatusServiceUnavailable, cerr.Message()
		default:
			return http.StatusBadGateway, cerr.Message()
		}
	default:
		return http.StatusInternalServerError, "An unexpected error occurred."
	}
}
